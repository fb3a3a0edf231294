package types

type (
	// BlockKind identifies one section of a directory report.
	BlockKind int

	// Tone selects the color a block is printed with on a terminal.
	Tone int

	// Block is one printable unit of a directory report.
	Block struct {
		Kind BlockKind
		Tone Tone
		Text string
	}
)

const (
	BlockHeader BlockKind = iota
	BlockSeparator
	BlockStatus
	BlockStdout
	BlockStderr
	BlockBlank
	// BlockLaunchError is written to the error channel, never to stdout.
	BlockLaunchError
)

const (
	ToneNeutral Tone = iota
	ToneAccent
	ToneFailure
)

var blockKindNames = map[BlockKind]string{
	BlockHeader:      "header",
	BlockSeparator:   "separator",
	BlockStatus:      "status",
	BlockStdout:      "stdout",
	BlockStderr:      "stderr",
	BlockBlank:       "blank",
	BlockLaunchError: "launch-error",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (t Tone) String() string {
	switch t {
	case ToneAccent:
		return "accent"
	case ToneFailure:
		return "failure"
	default:
		return "neutral"
	}
}

// ToStderr reports whether the block belongs on the error channel.
func (b Block) ToStderr() bool {
	return b.Kind == BlockLaunchError
}
