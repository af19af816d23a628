package bookings

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewReference mints a human-readable booking reference of the form
// TL-XXXXXXXX. The suffix comes from a fresh uuid, so collisions are
// possible in principle; the unique column on bookings.reference is the
// real guarantee and creation retries on that conflict.
func NewReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TL-%s", strings.ToUpper(raw[:8]))
}
