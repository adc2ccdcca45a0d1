package jq

import (
	"os"

	"github.com/savaki/jq"
)

func PerformJqQueryOnFile(filePath string, jqQuery string) ([]byte, error) {
	jsonContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return PerformJqQuery(jsonContent, jqQuery)
}

func PerformJqQuery(jsonContent []byte, jqQuery string) ([]byte, error) {
	op, err := jq.Parse(jqQuery)
	if err != nil {
		return nil, err
	}

	result, err := op.Apply(jsonContent)
	if err != nil {
		return nil, err
	}

	return result, nil
}
