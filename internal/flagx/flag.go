// Package flagx lets independent config layers each parse only the flags they
// own out of a shared argument list.
package flagx

import (
	"flag"
	"io"
	"slices"
	"strings"
)

// FilterArgs keeps the flags named in owned, with their values, and drops the
// rest. "-f value" and "-f=value" are both understood; a token starting with
// '-' is never taken as a value. The result is never nil.
func FilterArgs(args []string, owned []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if name, _, hasValue := strings.Cut(arg, "="); hasValue && strings.HasPrefix(arg, "-") {
			if slices.Contains(owned, name) {
				out = append(out, arg)
			}
			continue
		}
		if !slices.Contains(owned, arg) {
			continue
		}
		out = append(out, arg)
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}
	return out
}

// ConfigFileFlag returns the path passed with -c, -config or --config, or "".
// The last occurrence wins.
func ConfigFileFlag(args []string) string {
	var path string
	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to a .json, .yaml or .yml config file")
	fs.StringVar(&path, "c", "", "shorthand for -config")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))
	return path
}
