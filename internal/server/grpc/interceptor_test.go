package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/certshowcase/internal/logging"
)

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, &fakePinger{}, 0)
	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}

	handlerCalled := false
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
}

func TestRecoveryInterceptor_Panics(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, &fakePinger{}, 0)
	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	}

	resp, err := s.recoveryInterceptor(context.Background(), nil, info, h)
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestRecoveryInterceptor_KeepsErrors(t *testing.T) {
	s := NewGRPCServer("", logging.Nop{}, &fakePinger{}, 0)
	info := &grpc.UnaryServerInfo{FullMethod: "/pkg.Service/Method"}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "nope")
	}

	_, err := s.recoveryInterceptor(context.Background(), nil, info, h)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
