package types

// Field type codes for the header section, per the v3 format document.
const (
	HeaderVersion           uint8 = 0x00
	HeaderUUID              uint8 = 0x01
	HeaderNonDefaultPrefs   uint8 = 0x02
	HeaderTreeDisplayStatus uint8 = 0x03
	HeaderLastSaveTime      uint8 = 0x04
	HeaderLastSaveWhoLegacy uint8 = 0x05 // deprecated composite user+host field
	HeaderLastSaveApp       uint8 = 0x06
	HeaderLastSaveUser      uint8 = 0x07
	HeaderLastSaveHost      uint8 = 0x08
	HeaderDatabaseName      uint8 = 0x09
	HeaderDatabaseDesc      uint8 = 0x0a
	HeaderFilters           uint8 = 0x0b
	HeaderRecentEntries     uint8 = 0x0f
	HeaderNamedPolicies     uint8 = 0x10
	HeaderEmptyGroups       uint8 = 0x11
	HeaderYubico            uint8 = 0x12
	HeaderEnd               uint8 = EndMarkerType
)

// Field type codes for record entries.
const (
	RecordUUID                 uint8 = 0x01
	RecordGroup                uint8 = 0x02
	RecordTitle                uint8 = 0x03
	RecordUsername             uint8 = 0x04
	RecordNotes                uint8 = 0x05
	RecordPassword             uint8 = 0x06
	RecordCreationTime         uint8 = 0x07
	RecordPasswordModTime      uint8 = 0x08
	RecordLastAccessTime       uint8 = 0x09
	RecordPasswordExpiryTime   uint8 = 0x0a
	RecordLastModTime          uint8 = 0x0c
	RecordURL                  uint8 = 0x0d
	RecordAutotype             uint8 = 0x0e
	RecordPasswordHistory      uint8 = 0x0f
	RecordPasswordPolicy       uint8 = 0x10
	RecordExpiryInterval       uint8 = 0x11
	RecordRunCommand           uint8 = 0x12
	RecordDoubleClickAction    uint8 = 0x13
	RecordEmail                uint8 = 0x14
	RecordProtected            uint8 = 0x15
	RecordOwnSymbols           uint8 = 0x16
	RecordShiftDoubleClick     uint8 = 0x17
	RecordPasswordPolicyName   uint8 = 0x18
	RecordEnd                  uint8 = EndMarkerType
)

var headerFieldNames = map[uint8]string{
	HeaderVersion:           "version",
	HeaderUUID:              "uuid",
	HeaderNonDefaultPrefs:   "non-default preferences",
	HeaderTreeDisplayStatus: "tree display status",
	HeaderLastSaveTime:      "last save time",
	HeaderLastSaveWhoLegacy: "last save who (legacy)",
	HeaderLastSaveApp:       "last save application",
	HeaderLastSaveUser:      "last save user",
	HeaderLastSaveHost:      "last save host",
	HeaderDatabaseName:      "database name",
	HeaderDatabaseDesc:      "database description",
	HeaderFilters:           "filters",
	HeaderRecentEntries:     "recently used entries",
	HeaderNamedPolicies:     "named password policies",
	HeaderEmptyGroups:       "empty groups",
	HeaderYubico:            "yubico",
	HeaderEnd:               "end of header",
}

var recordFieldNames = map[uint8]string{
	RecordUUID:               "uuid",
	RecordGroup:              "group",
	RecordTitle:              "title",
	RecordUsername:           "username",
	RecordNotes:              "notes",
	RecordPassword:           "password",
	RecordCreationTime:       "creation time",
	RecordPasswordModTime:    "password modification time",
	RecordLastAccessTime:     "last access time",
	RecordPasswordExpiryTime: "password expiry time",
	RecordLastModTime:        "last modification time",
	RecordURL:                "url",
	RecordAutotype:           "autotype",
	RecordPasswordHistory:    "password history",
	RecordPasswordPolicy:     "password policy",
	RecordExpiryInterval:     "password expiry interval",
	RecordRunCommand:         "run command",
	RecordDoubleClickAction:  "double-click action",
	RecordEmail:              "email",
	RecordProtected:          "protected",
	RecordOwnSymbols:         "own symbols",
	RecordShiftDoubleClick:   "shift double-click action",
	RecordPasswordPolicyName: "password policy name",
	RecordEnd:                "end of record",
}

// HeaderFieldName returns a human-readable name for a header field type
// code, or "unknown" for codes this implementation does not recognize.
func HeaderFieldName(code uint8) string {
	if name, ok := headerFieldNames[code]; ok {
		return name
	}
	return "unknown"
}

// RecordFieldName returns a human-readable name for a record field type code.
func RecordFieldName(code uint8) string {
	if name, ok := recordFieldNames[code]; ok {
		return name
	}
	return "unknown"
}

// KnownHeaderField reports whether the type code has assigned semantics in
// the header section. Unknown codes are preserved verbatim, not rejected.
func KnownHeaderField(code uint8) bool {
	_, ok := headerFieldNames[code]
	return ok
}

// KnownRecordField reports whether the type code has assigned semantics in
// a record entry.
func KnownRecordField(code uint8) bool {
	_, ok := recordFieldNames[code]
	return ok
}

// RepeatableHeaderField reports whether multiple fields of the given type
// may appear in one header. Everything else occurring twice is a duplicate.
func RepeatableHeaderField(code uint8) bool {
	return code == HeaderEmptyGroups
}
