// Package access implements suite-scoped access control: permission
// resolution for a user on a suite, action authorization against the
// resolved level and a guard that runs a callback only when the action
// is allowed. All functions are pure; failures are returned as reason
// codes, never as errors or panics.
package access

// Level is an ordered permission tier. Higher levels satisfy lower
// requirements: none < read < write < admin.
type Level int

// Permission levels.
const (
	LevelNone Level = iota
	LevelRead
	LevelWrite
	LevelAdmin
)

// String returns the wire name of the level.
func (l Level) String() string {
	switch l {
	case LevelRead:
		return "read"
	case LevelWrite:
		return "write"
	case LevelAdmin:
		return "admin"
	default:
		return "none"
	}
}

// MarshalJSON encodes the level as its wire name.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// Satisfies reports whether the level meets the required level.
func (l Level) Satisfies(required Level) bool {
	return l >= required
}

// ParseLevel maps a stored level name to a Level. Unrecognized names map
// to LevelRead, matching the role mapping default for unknown org roles.
func ParseLevel(s string) Level {
	switch s {
	case "admin":
		return LevelAdmin
	case "write":
		return LevelWrite
	case "read":
		return LevelRead
	default:
		return LevelRead
	}
}
