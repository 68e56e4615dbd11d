package songbird

// Version is the release version of the songbird module and CLI.
const Version = "0.1.0"
