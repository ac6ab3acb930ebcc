package voltwiz

// Version is the release version, overridable at build time with
// -ldflags "-X github.com/voltwiz/voltwiz.Version=...".
var Version = "0.1.0"
