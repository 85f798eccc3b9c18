package testsupport

import (
	"fmt"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/goliatone/go-urlform/pkg/schema"
)

// SchemaFromKinds builds a schema with one field per entry in kinds, each an
// index into schema.FieldTypes(). Fields are spread over sections of three
// and params cycle through paramSpread names so collisions occur.
func SchemaFromKinds(kinds []int, paramSpread int) (*schema.Schema, error) {
	if paramSpread <= 0 {
		paramSpread = 1
	}
	types := schema.FieldTypes()
	var sections []schema.Section
	for i, kind := range kinds {
		if i%3 == 0 {
			sections = append(sections, schema.Section{Title: fmt.Sprintf("section %d", i/3)})
		}
		fieldType := types[((kind%len(types))+len(types))%len(types)]
		field := schema.Field{
			ID:    fmt.Sprintf("f%d", i),
			Type:  fieldType,
			Param: fmt.Sprintf("p%d", i%paramSpread),
		}
		switch fieldType {
		case schema.FieldText:
			field.Default = schema.String(fmt.Sprintf("text %d", i))
		case schema.FieldNumber:
			field.Default = schema.Number(float64(i) * 1.5)
		case schema.FieldSwitch:
			field.Default = schema.Bool(i%2 == 0)
		case schema.FieldColor:
			field.Default = schema.String("#00ff00")
		case schema.FieldRange:
			field.Default = schema.Number(float64(i))
		}
		last := &sections[len(sections)-1]
		last.Fields = append(last.Fields, field)
	}
	return schema.New(schema.AppInfo{}, schema.BaseConfig{}, sections)
}

// GenSchema generates schemas of up to twelve fields with colliding params.
func GenSchema() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOf(gen.IntRange(0, len(schema.FieldTypes())-1)),
		gen.IntRange(1, 6),
	).Map(func(vals []interface{}) *schema.Schema {
		kinds := vals[0].([]int)
		if len(kinds) > 12 {
			kinds = kinds[:12]
		}
		s, err := SchemaFromKinds(kinds, vals[1].(int))
		if err != nil {
			panic(err)
		}
		return s
	})
}
