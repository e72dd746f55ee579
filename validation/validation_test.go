package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TaskWebService/commands"
)

func TestCreateTaskCommandRequiresTitle(t *testing.T) {
	validate := New()

	err := validate.Struct(commands.CreateTaskCommand{})
	require.Error(t, err)
	assert.Equal(t, []string{"title"}, FailedFields(err))
}

func TestCreateTaskCommandAcceptsEmptyTitle(t *testing.T) {
	validate := New()
	title := ""

	assert.NoError(t, validate.Struct(commands.CreateTaskCommand{Title: &title}))
}

func TestCreateTaskCommandDescriptionOptional(t *testing.T) {
	validate := New()
	title := "Buy milk"

	assert.NoError(t, validate.Struct(commands.CreateTaskCommand{Title: &title}))
}

func TestFailedFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FailedFields(errors.New("boom")))
	assert.Nil(t, FailedFields(nil))
}
