package codegen

// Templates

const typesFileTemplate = `{{.Header}}

package {{.Package}}
{{range .Blades}}
// {{.Name}} {{.Comment}}
type {{.Name}} float32
{{end}}
{{- range .Structs}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}{{if .Blade}} // {{.Blade}}{{end}}
{{- end}}
}
{{end}}`

const operatorFileTemplate = `{{.Header}}

package {{.Package}}
{{range .Methods}}
// {{.Doc}}
func (self {{.Receiver}}) {{.Name}}({{.Param}}) {{.Result}} {
	return {{.Body}}
}
{{end}}
{{- if .Raws}}
// The following operators have no registered result type.
{{- range .Raws}}
//
// {{.Operator}} =
{{- range .Lines}}
//	{{.}}
{{- end}}
{{- end}}
{{end}}
{{- if .Zeros}}
// The following operators vanish identically.
{{- range .Zeros}}
//	{{.}}
{{- end}}
{{end}}`
