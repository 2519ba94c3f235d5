// Package passwords implements the password record repository. It mirrors
// the card repository's shape, with a secret value per record and a hidden
// flag per property. The password namespace predates the card one and its
// keys carry no namespace prefix.
package passwords

import "strconv"

// Namespace is the preference namespace password data lives in.
const Namespace = "passwords"

const allIDsKey = "password_ids"

const (
	fieldName        = "name"
	fieldPassword    = "password"
	fieldPropertyIDs = "password_properties"
)

const (
	propFieldName   = "property_name"
	propFieldValue  = "property_value"
	propFieldHidden = "property_hidden"
)

// scalarFields lists every per-record scalar suffix; the remove cascade
// walks this list.
var scalarFields = []string{fieldName, fieldPassword}

func fieldKey(id int32, field string) string {
	return strconv.FormatInt(int64(id), 10) + "." + field
}

func propKey(id, propertyID int32, field string) string {
	return strconv.FormatInt(int64(id), 10) + "." +
		strconv.FormatInt(int64(propertyID), 10) + "." + field
}
