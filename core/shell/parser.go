package shell

import "errors"

// ErrEmptyStage reports a pipeline with a missing command, such as a
// leading, trailing or doubled pipe operator.
var ErrEmptyStage = errors.New("empty command in pipeline")

// Parse groups tokens into pipeline stages, splitting at pipe operators.
// Every stage in the result is non-empty. An empty token stream yields an
// empty pipeline.
func Parse(tokens []Token) ([][]string, error) {
	var stages [][]string
	var current []string

	sawAnything := false
	for _, token := range tokens {
		if token.Type == Pipe {
			if !sawAnything || len(current) == 0 {
				return nil, ErrEmptyStage
			}
			stages = append(stages, current)
			current = nil
			continue
		}

		sawAnything = true
		current = append(current, token.Text)
	}

	switch {
	case len(current) > 0:
		stages = append(stages, current)
	case sawAnything:
		// Trailing pipe with nothing after it.
		return nil, ErrEmptyStage
	}

	return stages, nil
}
