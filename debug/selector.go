package debug

type Tselector string

// ALWAYS
const (
	ALWAYS Tselector = "ALWAYS"
	ERROR            = "ERROR"
	NEVER            = "NEVER"
)

// ERR
const (
	ERR Tselector = "_ERR"
)

// Benchmarks
const (
	BENCH     Tselector = "BENCH"
	BENCH_ERR           = BENCH + ERR
	SWEEP               = "SWEEP"
	CPU_UTIL            = "CPU_UTIL"
)

// Multiplier
const (
	MATMUL        Tselector = "MATMUL"
	MATMUL_WORKER           = MATMUL + "_WORKER"
	MATMUL_ERR              = MATMUL + ERR
	MATRIX                  = "MATRIX"
)

// Config
const (
	PARAM     Tselector = "PARAM"
	PARAM_ERR           = PARAM + ERR
)

// Tracing
const (
	TRACE     Tselector = "TRACE"
	TRACE_ERR           = TRACE + ERR
)

// Tests
const (
	TEST Tselector = "TEST"
	PERF           = "PERF"
)
