package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type SubmissionStatus string

const StatusActive SubmissionStatus = "ACTIVE"

// Submission is one respondent's questionnaire as returned by the forms API.
type Submission struct {
	ID        string           `json:"id"`
	FormID    string           `json:"form_id"`
	CreatedAt string           `json:"created_at"`
	Status    SubmissionStatus `json:"status"`
	Answers   AnswerSet        `json:"answers"`
}

// BatchFile is one page of submissions as written by the fetcher.
type BatchFile struct {
	ResponseCode int          `json:"responseCode"`
	Message      string       `json:"message"`
	Content      []Submission `json:"content"`
}

type SubAnswer struct {
	Key   string
	Value string
}

// RawAnswer is either absent, a plain text answer, or an ordered list of
// sub-answers (composite question).
type RawAnswer struct {
	present   bool
	composite bool
	text      string
	subs      []SubAnswer
}

func TextAnswer(s string) RawAnswer { return RawAnswer{present: true, text: s} }

func CompositeAnswer(subs ...SubAnswer) RawAnswer {
	return RawAnswer{present: true, composite: true, subs: subs}
}

func (a RawAnswer) Present() bool     { return a.present }
func (a RawAnswer) IsComposite() bool { return a.composite }
func (a RawAnswer) Text() string      { return a.text }
func (a RawAnswer) Subs() []SubAnswer { return a.subs }

// Blank reports whether the answer is absent or an empty text.
func (a RawAnswer) Blank() bool {
	return !a.present || (!a.composite && a.text == "")
}

// Sub returns the value at position i of a composite answer.
func (a RawAnswer) Sub(i int) (string, bool) {
	if !a.composite || i < 0 || i >= len(a.subs) {
		return "", false
	}
	return a.subs[i].Value, true
}

func (a *RawAnswer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*a = RawAnswer{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
	case '{':
		fields, err := decodeOrderedObject(b)
		if err != nil {
			return err
		}
		subs := make([]SubAnswer, 0, len(fields))
		for _, f := range fields {
			subs = append(subs, SubAnswer{Key: f.key, Value: rawText(f.value)})
		}
		*a = CompositeAnswer(subs...)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		subs := make([]SubAnswer, 0, len(items))
		for i, it := range items {
			subs = append(subs, SubAnswer{Key: strconv.Itoa(i), Value: rawText(it)})
		}
		*a = CompositeAnswer(subs...)
	default:
		// numbers and booleans keep their literal text
		*a = TextAnswer(string(b))
	}
	return nil
}

type AnswerEntry struct {
	QID    string
	Name   string
	Answer RawAnswer
}

// AnswerSet keeps the answers in the order the forms API iterates them:
// integer question ids ascending, then any other key in document order.
type AnswerSet []AnswerEntry

func (s *AnswerSet) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}
	fields, err := decodeOrderedObject(b)
	if err != nil {
		return err
	}
	out := make(AnswerSet, 0, len(fields))
	for _, f := range fields {
		var e struct {
			Name   string    `json:"name"`
			Answer RawAnswer `json:"answer"`
		}
		if err := json.Unmarshal(f.value, &e); err != nil {
			return fmt.Errorf("answer %q: %w", f.key, err)
		}
		out = append(out, AnswerEntry{QID: f.key, Name: e.Name, Answer: e.Answer})
	}
	*s = out
	return nil
}

type objectField struct {
	key   string
	value json.RawMessage
}

func decodeOrderedObject(b []byte) ([]objectField, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}
	var out []objectField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		out = append(out, objectField{key: key, value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, iok := arrayIndex(out[i].key)
		nj, jok := arrayIndex(out[j].key)
		switch {
		case iok && jok:
			return ni < nj
		case iok:
			return true
		default:
			return false
		}
	})
	return out, nil
}

// arrayIndex reports whether k is a canonical non-negative integer key.
func arrayIndex(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return n, true
}

func rawText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	return string(v)
}

const batchFilePrefix = "fetch-batch-"

// BatchFileName names the batch file holding the page at offset.
func BatchFileName(offset int) string {
	return fmt.Sprintf("%s%d.json", batchFilePrefix, offset)
}

// BatchOffset recovers the offset from a BatchFileName result.
func BatchOffset(name string) (int, bool) {
	if !strings.HasPrefix(name, batchFilePrefix) || !strings.HasSuffix(name, ".json") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, batchFilePrefix), ".json"))
	if err != nil {
		return 0, false
	}
	return n, true
}
