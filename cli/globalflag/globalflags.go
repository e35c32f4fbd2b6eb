package globalflag

import (
	"fmt"

	"github.com/spf13/pflag"
)

// AddGlobalFlags registers the flags every command in this module
// carries, regardless of its own option surface.
func AddGlobalFlags(fs *pflag.FlagSet, name string) {
	fs.BoolP("help", "h", false, fmt.Sprintf("help for %s", name))
}
