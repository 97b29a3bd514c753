package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// DecodeRoles unpacks a JSON role-id column. A missing or malformed column
// reads as an empty role set.
func DecodeRoles(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var roles []string
	if err := json.Unmarshal(data, &roles); err != nil {
		return nil
	}
	return roles
}

func EncodeRoles(roles []string) datatypes.JSON {
	if roles == nil {
		roles = []string{}
	}
	encoded, _ := json.Marshal(roles)
	return datatypes.JSON(encoded)
}
