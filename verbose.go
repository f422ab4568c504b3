package smc

import "github.com/xyproto/env/v2"

// VerboseMode enables tracing of buffer lifecycle transitions to
// stderr. It can also be switched on with the SMC_VERBOSE environment
// variable.
var VerboseMode = env.Bool("SMC_VERBOSE")
