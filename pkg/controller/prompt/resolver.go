package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-ohira/custodian/pkg/domain/interfaces"
	"github.com/m-ohira/custodian/pkg/domain/model"
)

// Resolver is an interactive collection resolver. It prints the candidate
// projects as a numbered list and reads the operator's choice. The whole run
// suspends until a choice is made; that is the intended behavior.
type Resolver struct {
	interfaces.CollectionLister

	reader *bufio.Reader
	writer io.Writer
}

var _ interfaces.CollectionResolver = (*Resolver)(nil)

// NewResolver creates an interactive resolver reading choices from input and
// writing prompts to output
func NewResolver(lister interfaces.CollectionLister, input io.Reader, output io.Writer) *Resolver {
	return &Resolver{
		CollectionLister: lister,
		reader:           bufio.NewReader(input),
		writer:           output,
	}
}

// ChooseCollection prompts until the operator enters a valid ordinal and
// returns the key of the selected candidate
func (r *Resolver) ChooseCollection(ctx context.Context, candidates []model.Collection) (string, error) {
	fmt.Fprintln(r.writer, "The configured project was rejected. Available projects:")
	for i, candidate := range candidates {
		fmt.Fprintf(r.writer, "  %d) %s (%s)\n", i+1, candidate.Key, candidate.Name)
	}

	for {
		fmt.Fprintf(r.writer, "Select project [1-%d]: ", len(candidates))

		line, err := r.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", goerr.Wrap(err, "failed to read project choice")
		}

		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || choice < 1 || choice > len(candidates) {
			fmt.Fprintln(r.writer, "Invalid choice.")
			if err == io.EOF {
				return "", goerr.New("input closed before a valid project choice")
			}
			continue
		}

		return candidates[choice-1].Key, nil
	}
}

// StaticResolver is a non-interactive resolver carrying a fixed fallback
// key. It never blocks, so automated callers can recover from a rejected
// project without a terminal.
type StaticResolver struct {
	interfaces.CollectionLister

	fallback string
}

var _ interfaces.CollectionResolver = (*StaticResolver)(nil)

// NewStaticResolver creates a resolver that always answers with the fallback
// key. An empty fallback selects the first candidate.
func NewStaticResolver(lister interfaces.CollectionLister, fallback string) *StaticResolver {
	return &StaticResolver{
		CollectionLister: lister,
		fallback:         fallback,
	}
}

// ChooseCollection returns the fallback key, or the first candidate when no
// fallback is configured
func (r *StaticResolver) ChooseCollection(ctx context.Context, candidates []model.Collection) (string, error) {
	if r.fallback != "" {
		return r.fallback, nil
	}
	if len(candidates) == 0 {
		return "", goerr.New("no candidates to choose from")
	}
	return candidates[0].Key, nil
}
