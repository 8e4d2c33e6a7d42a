package app

// Build metadata, stamped at release time:
//
//	go build -ldflags "-X github.com/heartmarshall/levi/internal/app.Version=1.4.0" ./cmd/levi
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion is printed by "levi version" and logged when a run starts.
func BuildVersion() string {
	return "levi " + Version + " (commit " + Commit + ", built " + BuildTime + ")"
}
