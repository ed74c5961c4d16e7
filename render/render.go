// Package render turns invoices into HTML and PDF by driving the xsltproc
// and wkhtmltopdf external tools with the official AdE stylesheets.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	fx "github.com/reoring/fatturex"
	"github.com/reoring/fatturex/codec"
)

// Renderer shells out to the transform tools. The zero value uses the
// tools from $PATH.
type Renderer struct {
	// XSLTProc is the xsltproc executable, "xsltproc" when empty.
	XSLTProc string
	// WKHTMLToPDF is the wkhtmltopdf executable, "wkhtmltopdf" when empty.
	WKHTMLToPDF string
}

func (r *Renderer) xsltproc() string {
	if r.XSLTProc != "" {
		return r.XSLTProc
	}
	return "xsltproc"
}

func (r *Renderer) wkhtmltopdf() string {
	if r.WKHTMLToPDF != "" {
		return r.WKHTMLToPDF
	}
	return "wkhtmltopdf"
}

// HTML renders the invoice through the given XSLT stylesheet.
func (r *Renderer) HTML(ctx context.Context, stylesheet string, doc *fx.Document) ([]byte, error) {
	tmp, err := os.CreateTemp("", "fatturex-*.xml")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if err := (codec.XML{}).Write(doc, tmp); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.xsltproc(), stylesheet, tmp.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", r.xsltproc(), err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// requiresLocalFileAccess reports whether this wkhtmltopdf build needs
// --enable-local-file-access to read the temporary HTML file. Only
// --extended-help reliably documents the option.
func (r *Renderer) requiresLocalFileAccess(ctx context.Context) bool {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, r.wkhtmltopdf(), "--extended-help")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return false
	}
	return strings.Contains(stdout.String(), "--enable-local-file-access")
}

// PDF renders the invoice to PDF through the given XSLT stylesheet. With
// an empty outputPath the PDF bytes are returned; otherwise they are
// written to the file and the returned slice is nil.
func (r *Renderer) PDF(ctx context.Context, stylesheet string, doc *fx.Document, outputPath string) ([]byte, error) {
	html, err := r.HTML(ctx, stylesheet, doc)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "fatturex-*.html")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	target := outputPath
	if target == "" {
		target = "-"
	}
	args := []string{tmp.Name(), target}
	if r.requiresLocalFileAccess(ctx) {
		args = append([]string{"--enable-local-file-access"}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.wkhtmltopdf(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", r.wkhtmltopdf(), err, stderr.String())
	}
	if outputPath == "" {
		return stdout.Bytes(), nil
	}
	return nil, nil
}
