package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/enform"
	"go.uber.org/zap"
)

var errInvalid = errors.New("values are invalid")

func newCheckCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a values document against tag rules",
		Long: `check builds a form from the values document, validates it with the
rules document and submits it. Rules map field names to
go-playground/validator tags:

  username: required,min=3
  email: required,email

The command fails when any field is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			valuesPath := c.v.GetString("values")
			if valuesPath == "" {
				return errors.New("--values is required")
			}
			format := c.v.GetString("format")

			values, err := readValues(valuesPath, format)
			if err != nil {
				return err
			}

			var validation enform.Validation
			if rulesPath := c.v.GetString("rules"); rulesPath != "" {
				validation, err = readRules(rulesPath, format)
				if err != nil {
					return err
				}
			}

			c.log.Debug("checking values",
				zap.String("values", valuesPath),
				zap.Int("fields", len(values)),
				zap.Int("rules", len(validation)),
			)
			return check(cmd.OutOrStdout(), values, validation)
		},
	}

	cmd.Flags().String("values", "", "values document to check")
	cmd.Flags().String("rules", "", "rules document mapping fields to validator tags")
	return cmd
}

// check submits values through a form and prints each invalid field.
func check(w io.Writer, values enform.Values, validation enform.Validation) error {
	form := enform.New(values, enform.WithName("check"), enform.WithValidation(validation))

	submitted := false
	form.OnSubmit(func(enform.Values) { submitted = true })
	if submitted {
		fmt.Fprintln(w, "ok")
		return nil
	}

	errs := form.Errors()
	for _, field := range errs.Invalid() {
		fmt.Fprintf(w, "%s: %v\n", field, errs[field])
	}
	return errInvalid
}

func readValues(path, format string) (enform.Values, error) {
	codec, err := codecFor(path, format)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	return enform.DecodeValues(codec, raw)
}

func readRules(path, format string) (enform.Validation, error) {
	codec, err := codecFor(path, format)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return parseRules(codec, raw)
}

// parseRules decodes a field to tag mapping into tag validators.
func parseRules(codec enform.Codec, raw []byte) (enform.Validation, error) {
	var tags map[string]string
	if err := codec.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	validation := make(enform.Validation, len(tags))
	for field, tag := range tags {
		if tag == "" {
			continue
		}
		validation[field] = enform.Tag(field, tag)
	}
	return validation, nil
}
