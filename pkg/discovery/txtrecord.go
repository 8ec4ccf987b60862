package discovery

import (
	"fmt"
	"strings"

	"github.com/homeweb-protocol/homeweb-go/pkg/model"
)

// TXT record keys.
const (
	TXTKeyUUID     = "id"
	TXTKeyType     = "urn"
	TXTKeyLocation = "loc"
	TXTKeyName     = "dn"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeTXT creates TXT records for a root announcement.
func EncodeTXT(info *Info) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyUUID] = info.UUID
	txt[TXTKeyType] = info.TypeURN
	txt[TXTKeyLocation] = info.Location

	// Optional fields
	if info.DisplayName != "" {
		txt[TXTKeyName] = info.DisplayName
	}

	return txt
}

// DecodeTXT parses TXT records from a root announcement.
func DecodeTXT(txt TXTRecordMap) (*Info, error) {
	info := &Info{}

	id, ok := txt[TXTKeyUUID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyUUID)
	}
	if !model.IsValidUUID(id) {
		return nil, ErrInvalidUUID
	}
	info.UUID = id

	info.TypeURN, ok = txt[TXTKeyType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyType)
	}

	info.Location, ok = txt[TXTKeyLocation]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyLocation)
	}

	// Optional
	info.DisplayName = txt[TXTKeyName]

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			txt[parts[0]] = ""
		}
	}
	return txt
}
