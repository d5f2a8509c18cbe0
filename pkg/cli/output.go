package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/dispatch"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outcomeLine renders one outcome the way the console panel does.
func outcomeLine(o dispatch.Outcome) string {
	label := strings.ToUpper(o.Device) + " " + device.StateString(o.State)
	switch {
	case o.Simulated:
		return fmt.Sprintf("%s: simulated (%s)", label, o.Reason)
	case o.Success:
		return fmt.Sprintf("%s: sent %q", label, o.Code)
	default:
		return fmt.Sprintf("%s: failed (%s): %s", label, o.Reason, o.Error)
	}
}
