package sml

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/motherofdaemons/obis-demystifier/obis"
)

const (
	publicOpenRes  = 0x0101
	publicCloseRes = 0x0201
	getListRes     = 0x0701
)

// File is the content of one SML transport frame reduced to its list entries.
type File struct {
	ServerID []byte
	Entries  []Entry
}

func (f *File) String() string {
	v, _ := json.Marshal(f)

	return string(v)
}

// Entry is a single value of an SML_GetList.Res message.
type Entry struct {
	Code   obis.Code
	Unit   uint8
	Scaler int8
	// Value holds a float64 for numbers scaled by 10^Scaler, []byte for
	// octet strings and bool for booleans.
	Value interface{}
}

func (e Entry) UnitName() string {
	return UnitName(e.Unit)
}

func (e Entry) FormatValue() string {
	switch v := e.Value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return fmt.Sprintf("%x", v)
	case nil:
		return ""
	}

	return fmt.Sprintf("%v", e.Value)
}

func decodeFile(payload []byte) (*File, error) {
	r := &tokenReader{data: payload}
	bodies := make([]smlList, 0)
	tags := make([]uint64, 0)

	for r.remaining() > 0 {
		token, err := r.readToken()

		if err != nil {
			return nil, err
		}

		if _, ok := token.(smlEndOfMessage); ok {
			continue
		}

		tag, body, err := decodeMessage(token)

		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
		bodies = append(bodies, body)
	}

	if len(tags) < 2 {
		return nil, &InvalidFile{
			errors.New("SML file must contain at least two messages"),
		}
	}

	if tags[0] != publicOpenRes {
		return nil, &InvalidFile{
			errors.New("SML file must begin with a SML_PublicOpen.Res message"),
		}
	}

	if tags[len(tags)-1] != publicCloseRes {
		return nil, &InvalidFile{
			errors.New("SML file must end with a SML_PublicClose.Res message"),
		}
	}

	f := &File{
		Entries: make([]Entry, 0),
	}

	if len(bodies[0]) >= 4 {
		f.ServerID, _ = bodies[0][3].(smlOctetString)
	}

	for i, tag := range tags[1 : len(tags)-1] {
		switch tag {
		case publicOpenRes, publicCloseRes:
			return nil, &InvalidFile{
				errors.New("SML file must not contain a SML_PublicOpen.Res or SML_PublicClose.Res message in the middle of the file"),
			}
		case getListRes:
			entries, err := decodeGetListRes(bodies[i+1])

			if err != nil {
				return nil, &InvalidFile{err}
			}

			f.Entries = append(f.Entries, entries...)
		}
	}

	return f, nil
}

// decodeMessage returns the choice tag and content of a message body.
func decodeMessage(token smlToken) (uint64, smlList, error) {
	message, ok := token.(smlList)

	if !ok || len(message) != 6 {
		return 0, nil, &InvalidMessage{fmt.Errorf("expected SML message list with 6 elements, got %v", token)}
	}

	choice, ok := message[3].(smlList)

	if !ok || len(choice) != 2 {
		return 0, nil, &InvalidMessage{errors.New("message body must be a list with 2 elements")}
	}

	tag, err := tokenUint(choice[0])

	if err != nil {
		return 0, nil, &InvalidMessage{fmt.Errorf("message body tag: %v", err)}
	}

	body, ok := choice[1].(smlList)

	if !ok {
		return 0, nil, &InvalidMessage{fmt.Errorf("message body %04x is not a list", tag)}
	}

	return tag, body, nil
}

func decodeGetListRes(body smlList) ([]Entry, error) {
	if len(body) != 7 {
		return nil, &InvalidMessage{fmt.Errorf("SML_GetList.Res needs 7 elements, got %d", len(body))}
	}

	valList, ok := body[4].(smlList)

	if !ok {
		return nil, &InvalidMessage{errors.New("SML_GetList.Res valList is not a list")}
	}

	entries := make([]Entry, 0, len(valList))

	for _, token := range valList {
		entry, err := decodeListEntry(token)

		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func decodeListEntry(token smlToken) (Entry, error) {
	fields, ok := token.(smlList)

	if !ok || len(fields) != 7 {
		return Entry{}, &InvalidMessage{fmt.Errorf("expected list entry with 7 elements, got %v", token)}
	}

	objName, ok := fields[0].(smlOctetString)

	if !ok {
		return Entry{}, &InvalidMessage{errors.New("objName must be an octet string")}
	}

	code, err := obis.FromBytes(objName)

	if err != nil {
		return Entry{}, &InvalidMessage{fmt.Errorf("objName: %w", err)}
	}

	unit, err := tokenUint(fields[3])

	if err != nil || unit > 0xff {
		return Entry{}, &InvalidMessage{fmt.Errorf("unit of %s is not an unsigned byte", code)}
	}

	scaler, err := tokenInt(fields[4])

	if err != nil || scaler < -128 || scaler > 127 {
		return Entry{}, &InvalidMessage{fmt.Errorf("scaler of %s is not a signed byte", code)}
	}

	e := Entry{
		Code:   code,
		Unit:   uint8(unit),
		Scaler: int8(scaler),
	}

	switch v := fields[5].(type) {
	case smlUnsigned:
		e.Value = scale(uint64(v), e.Scaler)
	case smlSigned:
		e.Value = scale(int64(v), e.Scaler)
	case smlBoolean:
		e.Value = bool(v)
	case smlOctetString:
		e.Value = []byte(v)
	default:
		return Entry{}, &InvalidMessage{fmt.Errorf("unsupported value type %T for %s", v, code)}
	}

	return e, nil
}
