package rstat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	rerrors "github.com/AndreyAkinshin/simregress/internal/errors"
)

// DefaultRscript is the R front-end looked up on PATH.
const DefaultRscript = "Rscript"

// RScript reads .qs files by running R with the qs package installed.
type RScript struct {
	binary string
}

// NewRScript creates a Source that runs the given Rscript binary.
// An empty binary selects DefaultRscript.
func NewRScript(binary string) *RScript {
	if binary == "" {
		binary = DefaultRscript
	}
	return &RScript{binary: binary}
}

// Available reports whether the Rscript binary can be found.
func (r *RScript) Available() error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return rerrors.Environment(fmt.Sprintf("%s not found on PATH", r.binary), err)
	}
	return nil
}

// Read loads the file once to capture its head preview. The table itself
// stays on disk until WriteText asks R to export it.
func (r *RScript) Read(ctx context.Context, path string) (Frame, error) {
	if err := r.Available(); err != nil {
		return nil, err
	}
	expr := fmt.Sprintf("print(utils::head(qs::qread(%s)))", rString(path))
	head, err := r.run(ctx, expr)
	if err != nil {
		return nil, errors.Wrapf(err, "qread %s", path)
	}
	return &rFrame{source: r, path: path, head: strings.TrimRight(head, "\n")}, nil
}

func (r *RScript) run(ctx context.Context, expr string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, "--vanilla", "-e", expr)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", err
		}
		return "", errors.Wrap(err, msg)
	}
	return stdout.String(), nil
}

type rFrame struct {
	source *RScript
	path   string
	head   string
}

// Head returns the preview captured at read time. R decides how many rows
// utils::head prints, so n is advisory here.
func (f *rFrame) Head(int) string {
	return f.head
}

func (f *rFrame) WriteText(ctx context.Context, path string) error {
	expr := fmt.Sprintf("utils::write.csv(qs::qread(%s), %s, row.names = FALSE)", rString(f.path), rString(path))
	if _, err := f.source.run(ctx, expr); err != nil {
		return errors.Wrapf(err, "write.csv %s", path)
	}
	return nil
}

// rString quotes s as an R string literal.
func rString(s string) string {
	return strconv.Quote(s)
}
