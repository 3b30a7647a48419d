package analog

import "strings"

// LogType classifies a log by the scheme encoded in its id.
type LogType string

const (
	LogTypeLocalFile  LogType = "LOCAL_FILE"
	LogTypeNode       LogType = "NODE"
	LogTypeDocker     LogType = "DOCKER"
	LogTypeKubernetes LogType = "KUBERNETES"
	LogTypeComposite  LogType = "COMPOSITE"
)

// Inclusion is one member of a composite log.
type Inclusion struct {
	Node string `json:"node" yaml:"node"`
	Path string `json:"path" yaml:"path"`
}

// Choice mirrors one entry of the /choices payload and identifies the log being watched.
type Choice struct {
	Group    string      `json:"group" yaml:"group"`
	Path     string      `json:"path" yaml:"path"`
	Node     string      `json:"node,omitempty" yaml:"node,omitempty"`
	Remote   bool        `json:"remote" yaml:"remote"`
	Title    string      `json:"title" yaml:"title"`
	Selected bool        `json:"selected" yaml:"selected"`
	UID      string      `json:"uid,omitempty" yaml:"uid,omitempty"`
	Includes []Inclusion `json:"includes,omitempty" yaml:"includes,omitempty"`
}

// ID returns the identity the subscription topic is derived from: the stable uid of a
// configured composite log when present, else its path.
func (c Choice) ID() string {
	if uid := strings.TrimSpace(c.UID); uid != "" {
		return uid
	}
	return c.Path
}

// IsPlain reports whether the choice has no server-side composite configuration.
func (c Choice) IsPlain() bool {
	return strings.TrimSpace(c.UID) == ""
}

// Type reports the kind of log the choice refers to.
func (c Choice) Type() LogType {
	if len(c.Includes) > 0 {
		return LogTypeComposite
	}
	return DetectLogType(c.Path)
}

// Same reports whether two choices denote the same log.
func (c Choice) Same(other Choice) bool {
	return PathsEqual(c.ID(), other.ID())
}

// Style is the rendering class of a single log line.
type Style string

const (
	StyleTrace Style = "TRACE"
	StyleDebug Style = "DEBUG"
	StyleInfo  Style = "INFO"
	StyleWarn  Style = "WARN"
	StyleError Style = "ERROR"
	StyleFatal Style = "FATAL"
	StylePlain Style = "PLAIN"
	StyleXML   Style = "XML"
)

// Normalize maps unknown styles onto PLAIN.
func (s Style) Normalize() Style {
	switch up := Style(strings.ToUpper(strings.TrimSpace(string(s)))); up {
	case StyleTrace, StyleDebug, StyleInfo, StyleWarn, StyleError, StyleFatal, StylePlain, StyleXML:
		return up
	default:
		return StylePlain
	}
}

// LogLine is one styled line of a record batch.
type LogLine struct {
	Style Style  `json:"style"`
	Text  string `json:"text"`
}

// Batch is a decoded unit of log output. A batch carrying a timestamp belongs to a
// composite log; the variant never changes after decoding.
type Batch struct {
	Timestamp      *int64    `json:"timestamp,omitempty"`
	SourceNode     string    `json:"sourceNode,omitempty"`
	SourcePath     string    `json:"sourcePath,omitempty"`
	HighlightColor string    `json:"highlightColor,omitempty"`
	Lines          []LogLine `json:"lines"`
}

// Composite reports whether the batch is ordered by timestamp.
func (b Batch) Composite() bool {
	return b.Timestamp != nil
}

// At returns the ordering key of a composite batch, zero for plain ones.
func (b Batch) At() int64 {
	if b.Timestamp == nil {
		return 0
	}
	return *b.Timestamp
}

// Metadata describes a tailing event reported by the server.
type Metadata struct {
	EventType string `json:"eventType"`
	LogPath   string `json:"logPath"`
	NodeName  string `json:"nodeName,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Failure carries a server-side tracking error.
type Failure struct {
	Message string `json:"message"`
}

// choicesErrorBody is the error payload returned by the server on failed requests.
type choicesErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
