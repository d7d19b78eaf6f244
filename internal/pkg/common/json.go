package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// errTrailingJSON 單一 JSON 值之後還有其他資料
var errTrailingJSON = errors.New("unexpected extra JSON data")

// ParseJSON 解析資料庫欄位等字串形式的 JSON
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// ParseJSONBytes 解析快取或遠端回應的 JSON 位元組
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

// decodeJSON 只接受單一 JSON 值；數字以 json.Number 保留原始精度
func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return errTrailingJSON
	}
	return nil
}

// ToJSON 將結構體轉換為 JSON 字串；nil 切片或指標回傳 fallback
func ToJSON(v interface{}, fallback string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if bytes.Equal(data, []byte("null")) {
		return fallback, nil
	}
	return string(data), nil
}
