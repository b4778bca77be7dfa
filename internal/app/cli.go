package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")
	flags.String("conduit-url", "", "Phabricator Conduit API base URL")
	flags.String("conduit-token", "", "Default Conduit API token")
	flags.Duration("conduit-timeout", 0, "Conduit HTTP timeout")
	flags.Int("context-radius", 0, "Lines of code context around commented lines")
	flags.Int("max-search-results", 0, "Maximum diff search hits per query")
}
