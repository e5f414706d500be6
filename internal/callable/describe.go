package callable

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"

	"github.com/funvibe/evalkit/internal/utils"
)

// Closure names end in ".func1", ".func2.1" and so on.
var anonymousFunc = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// Describe renders v for error messages: a function name in backquotes,
// the definition site of an anonymous function, or the %v form of anything else.
func Describe(v any) string {
	if f, ok := v.(*Func); ok && f != nil {
		if f.Name != "" {
			return "`" + f.Name + "`"
		}
		if f.Fn != nil {
			return describeFunc(reflect.ValueOf(f.Fn))
		}
		return "anonymous function"
	}

	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.Func && !rv.IsNil() {
		return describeFunc(rv)
	}
	return fmt.Sprintf("`%v`", v)
}

func describeFunc(rv reflect.Value) string {
	pc := rv.Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "`" + rv.Type().String() + "`"
	}
	name := fn.Name()
	if anonymousFunc.MatchString(name) {
		file, line := fn.FileLine(pc)
		return fmt.Sprintf("anonymous function found at: `%s:%d`", utils.ShortPath(file, 2), line)
	}
	return "`" + name + "`"
}
