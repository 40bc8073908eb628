package rewriter

import "errors"

// Classification sentinels for rewrite and restore failures. Callers match
// them with errors.Is; the wrapped message carries the concrete paths.
var (
	// ErrMissingBinary reports that the resolved entry-point executable
	// does not exist or is not a usable file.
	ErrMissingBinary = errors.New("entry-point executable not found")

	// ErrUnsupportedBinaryFormat reports that the compiled strategy could
	// not determine the entry point's architectures.
	ErrUnsupportedBinaryFormat = errors.New("unsupported binary format")

	// ErrGenerationFailed reports that the launcher artifact could not be
	// generated or installed. The original executable has been restored.
	ErrGenerationFailed = errors.New("launcher generation failed")

	// ErrSigningFailed reports that a required signature could not be
	// produced. The original executable has been restored.
	ErrSigningFailed = errors.New("launcher signing failed")

	// ErrCorruptedInstallation reports an inconsistent on-disk state,
	// such as a preserved original without its launcher, an entry point
	// that is not a generated launcher, or a failed rollback.
	ErrCorruptedInstallation = errors.New("corrupted launcher installation")
)
