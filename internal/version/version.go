package version

// Version is overridden at build time with
// -ldflags "-X github.com/ironsheep/image-stats/internal/version.Version=...".
var Version = "0.1.0"
