package types

// Version is the canonical project version. The CLI and the User-Agent
// string both report this constant (lockstep versioning).
const Version = "0.3.0"
