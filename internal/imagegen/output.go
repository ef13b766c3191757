package imagegen

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type outputShape int

const (
	outputNone outputShape = iota
	outputString
	outputList
	outputObject
)

// replicate returns a string, a list of strings or an object with a url field
type predictionOutput struct {
	shape outputShape
	str   string
	list  []string
	url   string
}

func (o *predictionOutput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = predictionOutput{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*o = predictionOutput{shape: outputString, str: s}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}

		list := make([]string, 0, len(items))
		for _, item := range items {
			var nested predictionOutput
			if err := nested.UnmarshalJSON(item); err != nil {
				return err
			}

			if u := nested.URL(); u != "" {
				list = append(list, u)
			}
		}

		*o = predictionOutput{shape: outputList, list: list}
	case '{':
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}

		*o = predictionOutput{shape: outputObject, url: obj.URL}
	default:
		return fmt.Errorf("unexpected prediction output: %s", data)
	}

	return nil
}

// first usable image URL, empty when there is none
func (o predictionOutput) URL() string {
	switch o.shape {
	case outputString:
		return o.str
	case outputList:
		if len(o.list) > 0 {
			return o.list[0]
		}
	case outputObject:
		return o.url
	}

	return ""
}
