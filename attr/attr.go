// Package attr converts DynamoDB typed attribute values into plain Go values
// suitable for JSON documents, and back.
package attr

import (
	"encoding/base64"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/pkg/errors"
)

var (
	ErrEmptyAttribute  = errors.New("attribute value has no type set")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrUnsupportedType = errors.New("unsupported value type")
	ErrInvalidKey      = errors.New("primary key must be a single string or number attribute")
)

// Decode converts a single typed attribute into a plain value. Numbers are
// parsed as float64; a malformed number is returned as an error.
func Decode(av *dynamodb.AttributeValue) (interface{}, error) {
	return decode(av, "")
}

// DecodeMap decodes every attribute in an image
func DecodeMap(image map[string]*dynamodb.AttributeValue) (map[string]interface{}, error) {
	return decodeMap(image, "")
}

func decodeMap(m map[string]*dynamodb.AttributeValue, path string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))

	for k, v := range m {
		decoded, err := decode(v, join(path, k))
		if err != nil {
			return nil, err
		}

		out[k] = decoded
	}

	return out, nil
}

func decode(av *dynamodb.AttributeValue, path string) (interface{}, error) {
	if av == nil {
		return nil, errors.Wrapf(ErrEmptyAttribute, "attribute '%s'", path)
	}

	switch {
	case av.S != nil:
		return *av.S, nil
	case av.N != nil:
		return parseNumber(*av.N, path)
	case av.BOOL != nil:
		return *av.BOOL, nil
	case av.NULL != nil:
		return nil, nil
	case av.B != nil:
		return base64.StdEncoding.EncodeToString(av.B), nil
	case av.SS != nil:
		out := make([]string, 0, len(av.SS))
		for _, s := range av.SS {
			out = append(out, aws.StringValue(s))
		}
		return out, nil
	case av.NS != nil:
		out := make([]float64, 0, len(av.NS))
		for i, n := range av.NS {
			f, err := parseNumber(aws.StringValue(n), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	case av.BS != nil:
		out := make([]string, 0, len(av.BS))
		for _, b := range av.BS {
			out = append(out, base64.StdEncoding.EncodeToString(b))
		}
		return out, nil
	case av.L != nil:
		out := make([]interface{}, 0, len(av.L))
		for i, item := range av.L {
			v, err := decode(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case av.M != nil:
		return decodeMap(av.M, path)
	}

	return nil, errors.Wrapf(ErrEmptyAttribute, "attribute '%s'", path)
}

// parseNumber accepts decimal numbers only; strconv alone would also take
// hex floats, underscores, "NaN" and "Inf".
func parseNumber(s, path string) (float64, error) {
	if s == "" || strings.Trim(s, "0123456789.+-eE") != "" {
		return 0, errors.Wrapf(ErrInvalidNumber, "attribute '%s' value '%s'", path, s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrInvalidNumber, "attribute '%s' value '%s'", path, s)
	}

	return f, nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}

// Encode converts a plain value back into its typed representation. It is
// the inverse of Decode for strings, numbers, bools, nulls, lists, maps,
// string sets and number sets.
func Encode(v interface{}) (*dynamodb.AttributeValue, error) {
	switch t := v.(type) {
	case nil:
		return &dynamodb.AttributeValue{NULL: aws.Bool(true)}, nil
	case string:
		return &dynamodb.AttributeValue{S: aws.String(t)}, nil
	case bool:
		return &dynamodb.AttributeValue{BOOL: aws.Bool(t)}, nil
	case float64:
		return &dynamodb.AttributeValue{N: aws.String(formatNumber(t))}, nil
	case int:
		return &dynamodb.AttributeValue{N: aws.String(strconv.Itoa(t))}, nil
	case int64:
		return &dynamodb.AttributeValue{N: aws.String(strconv.FormatInt(t, 10))}, nil
	case []string:
		return &dynamodb.AttributeValue{SS: aws.StringSlice(t)}, nil
	case []float64:
		ns := make([]*string, 0, len(t))
		for _, f := range t {
			ns = append(ns, aws.String(formatNumber(f)))
		}
		return &dynamodb.AttributeValue{NS: ns}, nil
	case []interface{}:
		l := make([]*dynamodb.AttributeValue, 0, len(t))
		for _, item := range t {
			av, err := Encode(item)
			if err != nil {
				return nil, err
			}
			l = append(l, av)
		}
		return &dynamodb.AttributeValue{L: l}, nil
	case map[string]interface{}:
		m, err := EncodeMap(t)
		if err != nil {
			return nil, err
		}
		return &dynamodb.AttributeValue{M: m}, nil
	}

	return nil, errors.Wrapf(ErrUnsupportedType, "%T", v)
}

// EncodeMap encodes a plain map into an image
func EncodeMap(m map[string]interface{}) (map[string]*dynamodb.AttributeValue, error) {
	out := make(map[string]*dynamodb.AttributeValue, len(m))

	// Sorted so that the first failing key is deterministic
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		av, err := Encode(m[k])
		if err != nil {
			return nil, errors.Wrapf(err, "attribute '%s'", k)
		}

		out[k] = av
	}

	return out, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// KeyID resolves a primary key map to the string id used in the index
func KeyID(keys map[string]*dynamodb.AttributeValue) (string, error) {
	if len(keys) != 1 {
		return "", errors.Wrapf(ErrInvalidKey, "got %d key attributes", len(keys))
	}

	for name, av := range keys {
		switch {
		case av == nil:
		case av.S != nil && *av.S != "":
			return *av.S, nil
		case av.N != nil && *av.N != "":
			return *av.N, nil
		}

		return "", errors.Wrapf(ErrInvalidKey, "key attribute '%s'", name)
	}

	return "", ErrInvalidKey
}
