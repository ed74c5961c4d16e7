package codec

import (
	"bytes"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	fx "github.com/reoring/fatturex"
)

const errorBanner = "# ERROR: "

// Edit opens the invoice in the user's $EDITOR, in the codec's format, and
// returns the edited invoice. When loading the edited file fails, the
// error is appended as a banner line and the editor reopens, until the
// content loads or is left unchanged. A nil document result means the
// content was not changed.
func Edit(c Codec, doc *fx.Document) (*fx.Document, error) {
	var buf bytes.Buffer
	if err := c.Write(doc, &buf); err != nil {
		return nil, err
	}
	return editBuffer(c, buf.String())
}

func editBuffer(c Codec, current string) (*fx.Document, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "sensible-editor"
	}

	tf, err := os.CreateTemp("", "fatturex-*."+c.Extensions()[0])
	if err != nil {
		return nil, err
	}
	path := tf.Name()
	tf.Close()
	defer os.Remove(path)

	loadError := ""
	for {
		content := current
		if loadError != "" {
			content += errorBanner + loadError + "\n"
			loadError = ""
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return nil, err
		}

		cmd := exec.Command(editor, path)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return nil, err
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		edited := stripBanner(string(raw))
		if edited == current {
			return nil, nil
		}

		// Reload from the stripped content, so a leftover banner does not
		// confuse the parser.
		if err := os.WriteFile(path, []byte(edited), 0o600); err != nil {
			return nil, err
		}
		doc, err := c.Load(path)
		if err == nil {
			return doc, nil
		}
		log.Error().Err(err).Str("path", path).Msg("cannot load edited file")
		current = edited
		loadError = err.Error()
	}
}

func stripBanner(s string) string {
	var out []string
	for _, line := range strings.SplitAfter(s, "\n") {
		if strings.HasPrefix(line, errorBanner) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "")
}
