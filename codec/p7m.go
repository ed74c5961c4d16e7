package codec

import (
	"fmt"
	"io"

	fx "github.com/reoring/fatturex"
	"github.com/reoring/fatturex/p7m"
)

// P7M reads invoices from signed envelopes. Writing would mean signing,
// which needs a key this library does not manage, so it only loads.
type P7M struct{}

func (P7M) Extensions() []string { return []string{"p7m"} }

func (P7M) Load(path string) (*fx.Document, error) {
	env, err := p7m.Load(path)
	if err != nil {
		return nil, err
	}
	return env.Document()
}

func (P7M) Write(doc *fx.Document, w io.Writer) error {
	return fmt.Errorf("p7m files can only be read")
}
