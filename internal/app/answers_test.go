package app_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apt_reviews/internal/app"
	"apt_reviews/internal/domain"
)

func TestAnswerSet_IntegerKeysAscendingThenDocumentOrder(t *testing.T) {
	raw := `{
	  "b":  {"name": "bee", "answer": "1"},
	  "10": {"name": "ten", "answer": "2"},
	  "2":  {"name": "two", "answer": "3"},
	  "a":  {"name": "ay", "answer": "4"},
	  "02": {"name": "padded", "answer": "5"}
	}`
	var set domain.AnswerSet
	require.NoError(t, json.Unmarshal([]byte(raw), &set))

	var qids []string
	for _, e := range set {
		qids = append(qids, e.QID)
	}
	assert.Equal(t, []string{"2", "10", "b", "a", "02"}, qids)
}

func TestRawAnswer_Shapes(t *testing.T) {
	var set domain.AnswerSet
	require.NoError(t, json.Unmarshal([]byte(`{
	  "1": {"name": "text", "answer": "Oui"},
	  "2": {"name": "obj", "answer": {"1": "second", "x": "third", "0": "first"}},
	  "3": {"name": "arr", "answer": ["a", "b"]},
	  "4": {"name": "num", "answer": 7},
	  "5": {"name": "none"}
	}`), &set))
	ix := app.NewAnswerIndex(set)

	a, err := ix.Find("text")
	require.NoError(t, err)
	assert.False(t, a.IsComposite())
	assert.Equal(t, "Oui", a.Text())

	a, err = ix.Find("obj")
	require.NoError(t, err)
	require.True(t, a.IsComposite())
	for i, want := range []string{"first", "second", "third"} {
		got, ok := a.Sub(i)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := a.Sub(3)
	assert.False(t, ok)

	a, err = ix.Find("arr")
	require.NoError(t, err)
	v, _ := a.Sub(1)
	assert.Equal(t, "b", v)

	a, err = ix.Find("num")
	require.NoError(t, err)
	assert.Equal(t, "7", a.Text())

	a, err = ix.Find("none")
	require.NoError(t, err)
	assert.False(t, a.Present())
	assert.True(t, a.Blank())
}

func TestFindAnswer_FirstMatchWins(t *testing.T) {
	set := domain.AnswerSet{
		{QID: "1", Name: "price", Answer: domain.TextAnswer("900")},
		{QID: "2", Name: "price", Answer: domain.TextAnswer("1200")},
	}
	a, err := app.FindAnswer(set, "price")
	require.NoError(t, err)
	assert.Equal(t, "900", a.Text())

	a, err = app.NewAnswerIndex(set).Find("price")
	require.NoError(t, err)
	assert.Equal(t, "900", a.Text())
}

func TestFindAnswer_MissingIsError(t *testing.T) {
	_, err := app.FindAnswer(nil, "price")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingField))
	assert.Contains(t, err.Error(), "price")

	_, err = app.NewAnswerIndex(domain.AnswerSet{}).Find("owner")
	assert.True(t, errors.Is(err, domain.ErrMissingField))
}

func TestBatchFile_FixtureDecodes(t *testing.T) {
	bf := loadBatch(t)
	require.Len(t, bf.Content, 3)
	sub := bf.Content[0]
	assert.Equal(t, domain.StatusActive, sub.Status)
	// "26" is listed first in the file but iterates after "25"
	assert.Equal(t, "3", sub.Answers[0].QID)
	assert.Equal(t, "globalComment", sub.Answers[len(sub.Answers)-1].Name)
}
