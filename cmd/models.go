package cmd

type ArgumentInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ArgInfo struct {
	TypeName  string `json:"typeName,omitempty"`
	FieldName string `json:"fieldName,omitempty"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
}

type FieldInfo struct {
	TypeName  string         `json:"typeName,omitempty"`
	Name      string         `json:"name"`
	Arguments []ArgumentInfo `json:"arguments,omitempty"`
	Type      string         `json:"type"`
}

type TypeInfo struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Flags []string `json:"flags,omitempty"`
}

type ValueInfo struct {
	EnumName string `json:"enumName,omitempty"`
	Name     string `json:"name"`
}

type ReferenceInfo struct {
	Location string `json:"location"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
}

type MappingInfo struct {
	Model  string `json:"model"`
	Plural string `json:"plural"`
	Action string `json:"action"`
	Field  string `json:"field"`
}
