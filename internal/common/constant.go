package common

const (
	// AuthorizationHeaderName carries "Bearer <access token>" on admin requests.
	AuthorizationHeaderName = "Authorization"

	// CertificatesBucket is the object-storage bucket holding attachments.
	CertificatesBucket = "certificates"

	// FilterAll is the wildcard value accepted by the issuer, type and status filters.
	FilterAll = "all"
)
