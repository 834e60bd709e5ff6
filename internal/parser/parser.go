package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/armaconf/arma"
	"github.com/mcncl/armaconf/internal/errors"
	"github.com/mcncl/armaconf/internal/models"
)

// Options tune which documents are accepted.
type Options struct {
	// Strict rejects classes that repeat a member name. Names are compared
	// case-insensitively, as the engine does.
	Strict bool
}

// Parse reads a whole document from reader and decodes it into an
// IntermediateRepresentation.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	return Options{}.Parse(reader)
}

// ParseString decodes a document held in memory.
func ParseString(text string) (models.IntermediateRepresentation, error) {
	return Options{}.ParseString(text)
}

// ParseFile decodes the document stored at filePath.
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	return Options{}.ParseFile(filePath)
}

func (o Options) Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	return o.ParseString(string(data))
}

func (o Options) ParseString(text string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(text) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}

	var root any
	if err := arma.UnmarshalString(text, &root); err != nil {
		return models.IntermediateRepresentation{}, DecodeError(text, err)
	}

	cls, ok := root.(*arma.Class)
	if !ok {
		return models.IntermediateRepresentation{}, errors.NewDecodingError(
			fmt.Sprintf("document is a bare %s value, not a list of statements", describe(root)),
			nil,
		)
	}
	if o.Strict {
		if err := checkDuplicates(cls, ""); err != nil {
			return models.IntermediateRepresentation{}, err
		}
	}
	return models.IntermediateRepresentation{Root: cls, Source: text}, nil
}

func (o Options) ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.IntermediateRepresentation{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.IntermediateRepresentation{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return o.ParseString(string(data))
}

// checkDuplicates reports the first member name repeated within a class.
func checkDuplicates(cls *arma.Class, path string) error {
	seen := make(map[string]string, cls.Len())
	for _, m := range cls.Members {
		folded := strings.ToLower(m.Name)
		if first, dup := seen[folded]; dup {
			return errors.NewDecodingError(
				fmt.Sprintf("%s%s repeats %s", path, m.Name, first),
				fmt.Errorf("%w: %w", errors.ErrDuplicateMember, arma.ErrSyntax),
			)
		}
		seen[folded] = m.Name
		if nested, ok := m.Value.(*arma.Class); ok {
			if err := checkDuplicates(nested, path+m.Name+"."); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeError wraps a decoder failure on text as an AppError whose message
// carries the line and column of the failure.
func DecodeError(text string, err error) *errors.AppError {
	var syntaxErr *arma.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		line, col := Position(text, syntaxErr.Offset)
		msg := syntaxErr.Err.Error()
		if syntaxErr.Msg != "" {
			msg += ": " + syntaxErr.Msg
		}
		return errors.NewDecodingError(fmt.Sprintf("line %d, column %d: %s", line, col, msg), err)
	}
	var typeErr *arma.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		line, col := Position(text, typeErr.Offset)
		return errors.NewDecodingError(
			fmt.Sprintf("line %d, column %d: cannot store %s in %s", line, col, typeErr.Value, typeErr.Type),
			err,
		)
	}
	return errors.NewDecodingError("failed to decode document", err)
}

// Position converts a byte offset in text to a 1-based line and column.
// Columns count runes.
func Position(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	start := strings.LastIndexByte(before, '\n') + 1
	col = len([]rune(before[start:])) + 1
	return line, col
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	}
	return "number"
}
