package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexString decodes a JSON string, number or bool as text. Model output
// often gives tuition or scores as bare numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
	case data[0] == '{', data[0] == '[':
		var v string
		return json.Unmarshal(data, &v)
	default:
		// numbers and booleans keep their literal form
		*s = flexString(data)
	}
	return nil
}

// flexInt decodes an integer given as a number, an integral float or a
// numeric string. Anything else decodes to 0 so the caller's default applies.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}

	*n = 0
	if v, err := strconv.Atoi(text); err == nil {
		*n = flexInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		*n = flexInt(f)
	}
	return nil
}

func (u *University) UnmarshalJSON(data []byte) error {
	type alias University
	aux := struct {
		*alias
		QSRanking flexInt `json:"qsRanking"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.QSRanking = int(aux.QSRanking)
	return nil
}

func (d *Department) UnmarshalJSON(data []byte) error {
	type alias Department
	aux := struct {
		*alias
		ProgramCount flexInt `json:"programCount"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.ProgramCount = int(aux.ProgramCount)
	return nil
}

func (p *Program) UnmarshalJSON(data []byte) error {
	type alias Program
	aux := struct {
		*alias
		Duration       flexString `json:"duration"`
		Tuition        flexString `json:"tuition"`
		ApplicationFee flexString `json:"applicationFee"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Duration = string(aux.Duration)
	p.Tuition = string(aux.Tuition)
	p.ApplicationFee = string(aux.ApplicationFee)
	return nil
}

func (r *Requirements) UnmarshalJSON(data []byte) error {
	type alias Requirements
	aux := struct {
		*alias
		GPA        flexString `json:"gpa"`
		Background flexString `json:"background"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.GPA = string(aux.GPA)
	r.Background = string(aux.Background)
	return nil
}

// UnmarshalJSON accepts either a score object or a bare total such as 6.5
func (l *LanguageScore) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var total flexString
		if err := total.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		*l = LanguageScore{Total: string(total)}
		return nil
	}

	var aux struct {
		Total     flexString `json:"total"`
		Listening flexString `json:"listening"`
		Reading   flexString `json:"reading"`
		Writing   flexString `json:"writing"`
		Speaking  flexString `json:"speaking"`
	}
	if err := json.Unmarshal(trimmed, &aux); err != nil {
		return err
	}
	*l = LanguageScore{
		Total:     string(aux.Total),
		Listening: string(aux.Listening),
		Reading:   string(aux.Reading),
		Writing:   string(aux.Writing),
		Speaking:  string(aux.Speaking),
	}
	return nil
}
