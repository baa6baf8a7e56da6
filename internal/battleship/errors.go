package battleship

import "errors"

// Error kinds raised by the engine. Callers match them with errors.Is;
// the returned errors wrap these with the offending values.
var (
	ErrInvalidShip           = errors.New("invalid ship")
	ErrInvalidOrientation    = errors.New("invalid orientation")
	ErrInvalidCoordinates    = errors.New("invalid coordinates")
	ErrOutOfBoundsHorizontal = errors.New("ship extends past the right edge")
	ErrOutOfBoundsVertical   = errors.New("ship extends past the bottom edge")
	ErrOverlappingShip       = errors.New("ship overlaps another ship")
	ErrAlreadyAttacked       = errors.New("cell already attacked")
	ErrInvalidLength         = errors.New("invalid ship length")
	ErrInvalidType           = errors.New("invalid ship type")

	ErrInvalidBoard       = errors.New("invalid board")
	ErrPlacementExhausted = errors.New("ship placement attempts exhausted")
	ErrGameNotInProgress  = errors.New("game is not in progress")
	ErrNoTargetsLeft      = errors.New("no unattacked cells left")
)

// kinds lists every sentinel in a stable order for Kind lookups.
var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidShip, "InvalidShip"},
	{ErrInvalidOrientation, "InvalidOrientation"},
	{ErrInvalidCoordinates, "InvalidCoordinates"},
	{ErrOutOfBoundsHorizontal, "OutOfBoundsHorizontal"},
	{ErrOutOfBoundsVertical, "OutOfBoundsVertical"},
	{ErrOverlappingShip, "OverlappingShip"},
	{ErrAlreadyAttacked, "AlreadyAttacked"},
	{ErrInvalidLength, "InvalidLength"},
	{ErrInvalidType, "InvalidType"},
	{ErrInvalidBoard, "InvalidBoard"},
	{ErrPlacementExhausted, "PlacementExhausted"},
	{ErrGameNotInProgress, "GameNotInProgress"},
	{ErrNoTargetsLeft, "NoTargetsLeft"},
}

// Kind returns the name of the engine error kind wrapped by err,
// or an empty string if err carries none.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// isPlacementRetryable reports whether a placement failure is geometric,
// meaning another origin or orientation may succeed.
func isPlacementRetryable(err error) bool {
	return errors.Is(err, ErrOverlappingShip) ||
		errors.Is(err, ErrOutOfBoundsHorizontal) ||
		errors.Is(err, ErrOutOfBoundsVertical)
}
