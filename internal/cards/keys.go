// Package cards implements the card record repository: the all-IDs index,
// per-field access to the encrypted preference store, user-defined
// properties and the remove/delete cascades.
package cards

import "strconv"

// Namespace is the preference namespace card data lives in.
const Namespace = "cards"

const allIDsKey = "all_card_ids"

// Per-record scalar field suffixes.
const (
	fieldName         = "name"
	fieldCode         = "code"
	fieldCodeType     = "code_type"
	fieldCodeTypeText = "code_type_text"
	fieldColor        = "color"
	fieldFrontImage   = "front_image_file_path"
	fieldBackImage    = "back_image_file_path"
	fieldPropertyIDs  = "card_properties_ids"
)

// Per-property field suffixes.
const (
	propFieldName  = "name"
	propFieldValue = "value"
)

// scalarFields lists every per-record scalar suffix. The remove/delete
// cascades walk this list, so declaring a new field here is enough to keep
// every delete path complete.
var scalarFields = []string{
	fieldName, fieldCode, fieldCodeType, fieldCodeTypeText,
	fieldColor, fieldFrontImage, fieldBackImage,
}

func fieldKey(id int32, field string) string {
	return Namespace + "." + strconv.FormatInt(int64(id), 10) + "." + field
}

func propKey(id, propertyID int32, field string) string {
	return Namespace + "." + strconv.FormatInt(int64(id), 10) + "." +
		strconv.FormatInt(int64(propertyID), 10) + "." + field
}
