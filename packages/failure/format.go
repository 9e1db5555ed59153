package failure

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitexpect/packages/value"
)

// Format substitutes the restricted printf verbs %s, %d and %f in template
// with args, in order. %% is a literal percent sign. A verb without a
// matching argument is left as is and surplus arguments are ignored, so a
// message can never fail to format.
func Format(template string, args []any) string {
	if !strings.Contains(template, "%") {
		return template
	}

	var buf strings.Builder
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			buf.WriteByte(c)
			continue
		}

		verb := template[i+1]
		switch verb {
		case '%':
			buf.WriteByte('%')
			i++
		case 's', 'd', 'f':
			if next >= len(args) {
				buf.WriteByte(c)
				continue
			}
			buf.WriteString(formatArg(verb, args[next]))
			next++
			i++
		default:
			buf.WriteByte(c)
		}
	}
	return buf.String()
}

func formatArg(verb byte, arg any) string {
	switch verb {
	case 'd':
		if f, ok := value.Number(arg); ok {
			return strconv.FormatInt(int64(f), 10)
		}
	case 'f':
		if f, ok := value.Number(arg); ok {
			return strconv.FormatFloat(f, 'f', 6, 64)
		}
	}
	if s, ok := arg.(string); ok {
		return s
	}
	if err, ok := arg.(error); ok {
		return err.Error()
	}
	if s, ok := arg.(fmt.Stringer); ok {
		return s.String()
	}
	return value.Export(arg)
}
