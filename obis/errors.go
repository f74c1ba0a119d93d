package obis

import "fmt"

// InvalidLength is returned when the input does not describe exactly six
// groups. For the hex form Actual and Expected count characters, for the
// decimal form they count tokens.
type InvalidLength struct {
	Actual   int
	Expected int
	Format   Style
}

func (i InvalidLength) Error() string {
	unit := "tokens"

	if i.Format == Hex {
		unit = "characters"
	}

	return fmt.Sprintf("invalid %s obis code: expected %d %s, got %d", i.Format, i.Expected, unit, i.Actual)
}

// InvalidDigit is returned when a group is not a valid byte in the base of
// its format.
type InvalidDigit struct {
	Token  string
	Format Style
	Err    error
}

func (i InvalidDigit) Error() string {
	return fmt.Sprintf("invalid %s obis code: %q is not a valid byte", i.Format, i.Token)
}

func (i InvalidDigit) Unwrap() error {
	return i.Err
}
