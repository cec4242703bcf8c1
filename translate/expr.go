package translate

import (
	"strings"

	"github.com/dhamidi/java2objc/java"
	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/objc"
)

// value is a translated expression together with what is statically known
// about it.
type value struct {
	text string
	typ  java.Type

	// lit holds the unquoted content of a string literal.
	lit   string
	isLit bool

	// class is set when the expression names a class rather than a value.
	class string
	// stream is set for System.out and System.err.
	stream bool
	// builder is the receiver of a chain of StringBuilder appends.
	builder string
}

var (
	typeString  = java.Type{Name: "String"}
	typeInt     = java.Type{Name: "int"}
	typeLong    = java.Type{Name: "long"}
	typeFloat   = java.Type{Name: "float"}
	typeDouble  = java.Type{Name: "double"}
	typeBoolean = java.Type{Name: "boolean"}
	typeChar    = java.Type{Name: "char"}
	typeVoid    = java.Type{Name: "void"}
	typeNull    = java.Type{Name: "null"}
	typeObject  = java.Type{Name: "Object"}
)

func (v TranslateVisitor) expr(ctx *GeneratorContext, n *parser.Node) (value, error) {
	switch n.Kind {
	case parser.KindLiteral:
		return literal(n)
	case parser.KindIdentifier:
		return v.identifier(ctx, n), nil
	case parser.KindThis:
		return value{text: "self", typ: java.Type{Name: ctx.typeName()}}, nil
	case parser.KindSuper:
		return value{text: "super", typ: java.Type{Name: ctx.unit.super}}, nil
	case parser.KindParenExpr:
		inner, err := v.expr(ctx, n.Children[0])
		if err != nil {
			return value{}, err
		}
		return value{text: "(" + inner.text + ")", typ: inner.typ, class: inner.class}, nil
	case parser.KindFieldAccess:
		return v.fieldAccess(ctx, n)
	case parser.KindCallExpr:
		return v.call(ctx, n)
	case parser.KindNewExpr:
		return v.newObject(ctx, n)
	case parser.KindNewArrayExpr:
		return v.newArray(ctx, n)
	case parser.KindArrayInit:
		return v.arrayLiteral(ctx, n, java.Type{Name: "Object", ArrayDepth: 1})
	case parser.KindArrayAccess:
		return v.arrayAccess(ctx, n)
	case parser.KindAssignExpr:
		return v.assign(ctx, n)
	case parser.KindTernaryExpr:
		return v.ternary(ctx, n)
	case parser.KindBinaryExpr:
		return v.binary(ctx, n)
	case parser.KindUnaryExpr:
		return v.unary(ctx, n)
	case parser.KindPostfixExpr:
		return v.step(ctx, n.Children[0], n.Children[1].TokenLiteral(), false)
	case parser.KindCastExpr:
		return v.cast(ctx, n)
	case parser.KindInstanceofExpr:
		return v.instanceof(ctx, n)
	case parser.KindClassLiteral:
		return v.classLiteral(ctx, n)
	case parser.KindLambdaExpr:
		return value{}, unsupported("lambda", n)
	case parser.KindMethodRef:
		return value{}, unsupported("method reference", n)
	}
	return value{}, unsupportedNode(n)
}

func literal(n *parser.Node) (value, error) {
	tok := n.Token
	if tok == nil {
		return value{}, unsupportedNode(n)
	}
	lit := tok.Literal
	switch tok.Kind {
	case parser.TokenStringLiteral:
		if len(lit) < 2 {
			return value{}, unsupportedNode(n)
		}
		return value{text: "@" + lit, typ: typeString, lit: lit[1 : len(lit)-1], isLit: true}, nil
	case parser.TokenCharLiteral:
		return value{text: lit, typ: typeChar}, nil
	case parser.TokenTrue:
		return value{text: "YES", typ: typeBoolean}, nil
	case parser.TokenFalse:
		return value{text: "NO", typ: typeBoolean}, nil
	case parser.TokenNull:
		return value{text: "nil", typ: typeNull}, nil
	case parser.TokenIntLiteral:
		lit = strings.ReplaceAll(lit, "_", "")
		if strings.HasSuffix(lit, "l") || strings.HasSuffix(lit, "L") {
			return value{text: lit[:len(lit)-1] + "LL", typ: typeLong}, nil
		}
		return value{text: lit, typ: typeInt}, nil
	case parser.TokenFloatLiteral:
		lit = strings.ReplaceAll(lit, "_", "")
		switch lit[len(lit)-1] {
		case 'f', 'F':
			return value{text: lit, typ: typeFloat}, nil
		case 'd', 'D':
			lit = lit[:len(lit)-1]
		}
		return value{text: lit, typ: typeDouble}, nil
	case parser.TokenTextBlock:
		return value{}, unsupported("text block", n)
	}
	return value{}, unsupportedNode(n)
}

func (v TranslateVisitor) identifier(ctx *GeneratorContext, n *parser.Node) value {
	name := n.TokenLiteral()
	if t, ok := ctx.lookupLocal(name); ok {
		return value{text: name, typ: t}
	}
	if f, owner, ok := ctx.lookupField(name); ok {
		if f.static {
			return value{text: owner.name + "_" + name, typ: f.typ}
		}
		return value{text: name, typ: f.typ}
	}
	if ctx.isClassName(name) {
		return value{text: name, class: name}
	}
	return value{text: name}
}

// classConstants maps library constants to their C counterparts.
var classConstants = map[string]value{
	"Integer.MAX_VALUE":   {text: "INT_MAX", typ: typeInt},
	"Integer.MIN_VALUE":   {text: "INT_MIN", typ: typeInt},
	"Long.MAX_VALUE":      {text: "LLONG_MAX", typ: typeLong},
	"Long.MIN_VALUE":      {text: "LLONG_MIN", typ: typeLong},
	"Double.MAX_VALUE":    {text: "DBL_MAX", typ: typeDouble},
	"Double.MIN_VALUE":    {text: "DBL_MIN", typ: typeDouble},
	"Float.MAX_VALUE":     {text: "FLT_MAX", typ: typeFloat},
	"Float.MIN_VALUE":     {text: "FLT_MIN", typ: typeFloat},
	"Character.MAX_VALUE": {text: "USHRT_MAX", typ: typeChar},
	"Math.PI":             {text: "M_PI", typ: typeDouble},
	"Math.E":              {text: "M_E", typ: typeDouble},
	"Boolean.TRUE":        {text: "@YES", typ: java.Type{Name: "Boolean"}},
	"Boolean.FALSE":       {text: "@NO", typ: java.Type{Name: "Boolean"}},
}

func (v TranslateVisitor) fieldAccess(ctx *GeneratorContext, n *parser.Node) (value, error) {
	member := n.Children[len(n.Children)-1]
	switch member.Kind {
	case parser.KindThis:
		return value{}, unsupported("qualified this", n)
	case parser.KindSuper:
		return value{}, unsupported("qualified super", n)
	}
	name := member.TokenLiteral()
	target := n.Children[0]

	if target.Kind == parser.KindThis || target.Kind == parser.KindSuper {
		f, owner, ok := ctx.lookupField(name)
		switch {
		case ok && f.static:
			return value{text: owner.name + "_" + name, typ: f.typ}, nil
		case ok:
			return value{text: "self->" + name, typ: f.typ}, nil
		}
		return value{text: "self->" + name}, nil
	}

	recv, err := v.expr(ctx, target)
	if err != nil {
		return value{}, err
	}
	switch {
	case recv.class == "System" && (name == "out" || name == "err"):
		return value{text: "System." + name, stream: true}, nil
	case recv.class != "":
		if c, ok := classConstants[recv.class+"."+name]; ok {
			return c, nil
		}
		table := ctx.members(recv.class)
		if table == nil || table.name != ctx.typeName() {
			ctx.classType(recv.class)
		}
		var typ java.Type
		if table != nil {
			typ = table.fields[name].typ
		}
		return value{text: simpleName(recv.class) + "_" + name, typ: typ}, nil
	case recv.typ.IsArray() && name == "length":
		return value{text: "(int)[" + recv.text + " count]", typ: typeInt}, nil
	}

	var typ java.Type
	if table := ctx.members(recv.typ.Name); table != nil {
		typ = table.fields[name].typ
	}
	return value{text: recv.text + "->" + name, typ: typ}, nil
}

// send renders a message expression.
func send(recv string, keywords, args []string) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(recv)
	sb.WriteString(" ")
	if len(args) == 0 {
		sb.WriteString(keywords[0])
	}
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(keywords[i])
		sb.WriteString(":")
		sb.WriteString(arg)
	}
	sb.WriteString("]")
	return sb.String()
}

// genericKeywords is the selector for a callee whose parameter names are
// unknown: the name on the first argument and empty keywords after it.
func genericKeywords(name string, constructor bool, arity int) []string {
	if constructor {
		name = "init"
		if arity > 0 {
			name = "initWith"
		}
	}
	keywords := make([]string, max(arity, 1))
	keywords[0] = name
	return keywords
}

func (v TranslateVisitor) argValues(ctx *GeneratorContext, n *parser.Node) ([]value, error) {
	if n == nil {
		return nil, nil
	}
	vals := make([]value, 0, len(n.Children))
	for _, arg := range n.Children {
		val, err := v.expr(ctx, arg)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	return vals, nil
}

func (v TranslateVisitor) args(ctx *GeneratorContext, n *parser.Node) ([]string, error) {
	vals, err := v.argValues(ctx, n)
	if err != nil {
		return nil, err
	}
	return texts(vals), nil
}

func texts(vals []value) []string {
	out := make([]string, len(vals))
	for i, val := range vals {
		out[i] = val.text
	}
	return out
}

// coerceArgs boxes or unboxes arguments to the declared parameter types.
func coerceArgs(vals []value, types []java.Type) []string {
	out := make([]string, len(vals))
	for i, val := range vals {
		if i < len(types) {
			out[i] = coerce(val, types[i])
		} else {
			out[i] = val.text
		}
	}
	return out
}

// coerce converts val for use where a value of type target is expected,
// boxing primitives into objects and unboxing numbers into primitives.
func coerce(val value, target java.Type) string {
	switch {
	case target.Name == "" || target.IsVar() || target.IsVoid() || val.typ.Name == "":
		return val.text
	case !target.IsPrimitive() && val.typ.IsPrimitive():
		return box(val)
	case target.IsPrimitive() && isBoxedType(val.typ.Name) && !val.typ.IsArray():
		return "[" + val.text + " " + unboxSelector(target.Name) + "]"
	}
	return val.text
}

func box(val value) string {
	if val.typ.IsPrimitive() {
		return "@(" + val.text + ")"
	}
	return val.text
}

// unboxed returns val as a primitive operand.
func unboxed(val value) string {
	if isBoxedType(val.typ.Name) && !val.typ.IsArray() {
		return "[" + val.text + " " + unboxSelector(val.typ.Name) + "]"
	}
	return val.text
}

func numericType(t java.Type) java.Type {
	if p := primitiveOf(t.Name); p != "" && !t.IsArray() {
		return java.Type{Name: p}
	}
	return t
}

// promote applies binary numeric promotion.
func promote(a, b java.Type) java.Type {
	a, b = numericType(a), numericType(b)
	for _, name := range []string{"double", "float", "long"} {
		if a.Name == name || b.Name == name {
			return java.Type{Name: name}
		}
	}
	if a.IsPrimitive() || b.IsPrimitive() {
		return typeInt
	}
	return java.Type{}
}

func (v TranslateVisitor) call(ctx *GeneratorContext, n *parser.Node) (value, error) {
	target := n.Children[0]
	argNodes := n.FirstChildOfKind(parser.KindParameters)
	vals, err := v.argValues(ctx, argNodes)
	if err != nil {
		return value{}, err
	}

	switch target.Kind {
	case parser.KindIdentifier:
		return v.unqualifiedCall(ctx, target.TokenLiteral(), vals), nil
	case parser.KindFieldAccess:
	default:
		return value{}, unsupported("call target "+target.Kind.String(), target)
	}

	name := target.Children[len(target.Children)-1].TokenLiteral()
	recvNode := target.Children[0]
	if recvNode.Kind == parser.KindSuper {
		keywords := genericKeywords(name, false, len(vals))
		var result java.Type
		argText := texts(vals)
		if info, ok := ctx.lookupMethod(ctx.unit.super, name, len(vals)); ok {
			keywords = objc.SelectorKeywords(name, false, info.params)
			result = info.result
			argText = coerceArgs(vals, info.paramTypes)
		}
		return value{text: send("super", keywords, argText), typ: result}, nil
	}

	recv, err := v.expr(ctx, recvNode)
	if err != nil {
		return value{}, err
	}
	switch {
	case recv.stream:
		return v.printCall(ctx, n, name, vals, argNodes)
	case recv.class != "":
		return v.staticCall(ctx, n, recv.class, name, vals)
	}
	return v.instanceCall(ctx, recv, name, vals), nil
}

// unqualifiedCall translates foo(a) against the unit's own methods.
func (v TranslateVisitor) unqualifiedCall(ctx *GeneratorContext, name string, vals []value) value {
	info, ok := ctx.lookupMethod(ctx.typeName(), name, len(vals))
	static := ctx.inStaticContext()
	keywords := genericKeywords(name, false, len(vals))
	argText := texts(vals)
	if ok {
		static = info.static
		keywords = objc.SelectorKeywords(name, false, info.params)
		argText = coerceArgs(vals, info.paramTypes)
	}
	recv := "self"
	if static {
		recv = ctx.typeName()
	}
	return value{text: send(recv, keywords, argText), typ: v.resultType(ctx, info.result)}
}

// resultType drops type parameters, which carry no static information.
func (v TranslateVisitor) resultType(ctx *GeneratorContext, t java.Type) java.Type {
	if ctx.isTypeParam(t.Name) && !t.IsArray() {
		return typeObject
	}
	return t
}

func (v TranslateVisitor) printCall(ctx *GeneratorContext, n *parser.Node, name string, vals []value, argNodes *parser.Node) (value, error) {
	switch name {
	case "println", "print":
		if len(vals) == 0 {
			return value{text: `NSLog(@"")`, typ: typeVoid}, nil
		}
		parts, err := v.concatOperands(ctx, argNodes.Children[0])
		if err != nil {
			return value{}, err
		}
		format, args := formatFrom(parts)
		return value{text: nslog(format, args), typ: typeVoid}, nil
	case "printf", "format":
		if len(vals) == 0 {
			break
		}
		format := vals[0].text
		if vals[0].isLit {
			format = `@"` + javaFormat(vals[0].lit) + `"`
		}
		args := make([]string, 0, len(vals)-1)
		for _, val := range vals[1:] {
			_, arg := formatArg(val)
			args = append(args, arg)
		}
		return value{text: "NSLog(" + strings.Join(append([]string{format}, args...), ", ") + ")", typ: typeVoid}, nil
	}
	return value{}, unsupported("System stream method "+name, n)
}

func nslog(format string, args []string) string {
	return "NSLog(" + strings.Join(append([]string{`@"` + format + `"`}, args...), ", ") + ")"
}

// javaFormat rewrites a java.util.Formatter pattern for NSString.
func javaFormat(s string) string {
	return strings.NewReplacer("%s", "%@", "%S", "%@", "%n", `\n`, "%b", "%d").Replace(s)
}

var mathFunctions = map[string]string{
	"sqrt":  "sqrt",
	"pow":   "pow",
	"floor": "floor",
	"ceil":  "ceil",
	"sin":   "sin",
	"cos":   "cos",
	"tan":   "tan",
	"atan":  "atan",
	"atan2": "atan2",
	"exp":   "exp",
	"log":   "log",
	"log10": "log10",
	"hypot": "hypot",
	"cbrt":  "cbrt",
}

func cCall(fn string, args []string) string {
	return fn + "(" + strings.Join(args, ", ") + ")"
}

func (v TranslateVisitor) staticCall(ctx *GeneratorContext, n *parser.Node, class, name string, vals []value) (value, error) {
	argText := make([]string, len(vals))
	for i, val := range vals {
		argText[i] = unboxed(val)
	}
	arity := len(vals)

	switch simpleName(class) {
	case "Math":
		switch {
		case name == "abs" && arity == 1:
			t := numericType(vals[0].typ)
			if t.Name == "int" || t.Name == "long" {
				return value{text: cCall("llabs", argText), typ: t}, nil
			}
			return value{text: cCall("fabs", argText), typ: typeDouble}, nil
		case (name == "max" || name == "min") && arity == 2:
			return value{text: cCall(strings.ToUpper(name), argText), typ: promote(vals[0].typ, vals[1].typ)}, nil
		case name == "round" && arity == 1:
			return value{text: cCall("llround", argText), typ: typeLong}, nil
		case name == "random" && arity == 0:
			return value{text: "((double)arc4random() / UINT32_MAX)", typ: typeDouble}, nil
		case mathFunctions[name] != "":
			return value{text: cCall(mathFunctions[name], argText), typ: typeDouble}, nil
		}
		return value{}, unsupported("Math."+name, n)
	case "String":
		switch {
		case name == "valueOf" && arity == 1:
			return v.stringFromParts(vals), nil
		case name == "format" && arity >= 1:
			format := vals[0].text
			if vals[0].isLit {
				format = `@"` + javaFormat(vals[0].lit) + `"`
			}
			args := []string{format}
			for _, val := range vals[1:] {
				_, arg := formatArg(val)
				args = append(args, arg)
			}
			return value{text: "[NSString stringWithFormat:" + strings.Join(args, ", ") + "]", typ: typeString}, nil
		}
	case "Integer", "Long", "Double", "Float", "Short", "Byte", "Boolean", "Character":
		if val, ok := boxedStatic(class, name, vals); ok {
			return val, nil
		}
	case "System":
		switch name {
		case "currentTimeMillis":
			return value{text: "(long long)([[NSDate date] timeIntervalSince1970] * 1000)", typ: typeLong}, nil
		case "nanoTime":
			return value{text: "(long long)([[NSDate date] timeIntervalSince1970] * 1000000000)", typ: typeLong}, nil
		case "exit":
			return value{text: cCall("exit", argText), typ: typeVoid}, nil
		}
		return value{}, unsupported("System."+name, n)
	case "Thread":
		if name == "sleep" && arity == 1 {
			return value{text: "[NSThread sleepForTimeInterval:" + argText[0] + " / 1000.0]", typ: typeVoid}, nil
		}
	}

	recv := ctx.typeName()
	if simpleName(class) != recv {
		recv = ctx.classType(class).Name()
	}
	keywords := genericKeywords(name, false, arity)
	argText = texts(vals)
	var result java.Type
	if info, ok := ctx.lookupMethod(class, name, arity); ok {
		keywords = objc.SelectorKeywords(name, false, info.params)
		argText = coerceArgs(vals, info.paramTypes)
		result = info.result
	}
	return value{text: send(recv, keywords, argText), typ: result}, nil
}

// boxedStatic maps the parse, valueOf and toString helpers of the boxed types.
func boxedStatic(class, name string, vals []value) (value, bool) {
	if len(vals) != 1 {
		return value{}, false
	}
	arg := vals[0]
	prim := primitiveOf(class)
	switch {
	case strings.HasPrefix(name, "parse"):
		return value{text: "[" + arg.text + " " + unboxSelector(prim) + "]", typ: java.Type{Name: prim}}, true
	case name == "valueOf" && isStringType(arg.typ):
		return value{text: "@([" + arg.text + " " + unboxSelector(prim) + "])", typ: java.Type{Name: class}}, true
	case name == "valueOf":
		return value{text: "@(" + unboxed(arg) + ")", typ: java.Type{Name: class}}, true
	case name == "toString":
		spec, text := formatArg(value{text: unboxed(arg), typ: java.Type{Name: prim}})
		return value{text: `[NSString stringWithFormat:@"` + spec + `", ` + text + "]", typ: typeString}, true
	}
	return value{}, false
}

// elementType returns the i-th type argument of t, if it was written.
func elementType(t java.Type, i int) java.Type {
	if i < len(t.TypeArgs) {
		return t.TypeArgs[i]
	}
	return typeObject
}

func (v TranslateVisitor) instanceCall(ctx *GeneratorContext, recv value, name string, vals []value) value {
	arity := len(vals)
	r := recv.text
	arg := func(i int) string { return vals[i].text }
	boxed := func(i int) string { return box(vals[i]) }
	msg := func(sel string, typ java.Type) value { return value{text: "[" + r + " " + sel + "]", typ: typ} }

	if isStringType(recv.typ) {
		switch {
		case name == "length" && arity == 0:
			return value{text: "(int)[" + r + " length]", typ: typeInt}
		case name == "charAt" && arity == 1:
			return msg("characterAtIndex:"+unboxed(vals[0]), typeChar)
		case name == "isEmpty" && arity == 0:
			return value{text: "([" + r + " length] == 0)", typ: typeBoolean}
		case name == "substring" && arity == 1:
			return msg("substringFromIndex:"+arg(0), typeString)
		case name == "substring" && arity == 2:
			return msg("substringWithRange:NSMakeRange("+arg(0)+", ("+arg(1)+") - ("+arg(0)+"))", typeString)
		case name == "indexOf" && arity == 1:
			needle := arg(0)
			if vals[0].typ.Name == "char" {
				needle = `[NSString stringWithFormat:@"%C", ` + needle + "]"
			}
			return value{text: "(int)[" + r + " rangeOfString:" + needle + "].location", typ: typeInt}
		case name == "contains" && arity == 1:
			return msg("containsString:"+arg(0), typeBoolean)
		case name == "startsWith" && arity == 1:
			return msg("hasPrefix:"+arg(0), typeBoolean)
		case name == "endsWith" && arity == 1:
			return msg("hasSuffix:"+arg(0), typeBoolean)
		case name == "equalsIgnoreCase" && arity == 1:
			return value{text: "([" + r + " caseInsensitiveCompare:" + arg(0) + "] == NSOrderedSame)", typ: typeBoolean}
		case name == "compareTo" && arity == 1:
			return value{text: "(int)[" + r + " compare:" + arg(0) + "]", typ: typeInt}
		case name == "toUpperCase" && arity == 0:
			return msg("uppercaseString", typeString)
		case name == "toLowerCase" && arity == 0:
			return msg("lowercaseString", typeString)
		case name == "trim" && arity == 0:
			return msg("stringByTrimmingCharactersInSet:[NSCharacterSet whitespaceCharacterSet]", typeString)
		case name == "concat" && arity == 1:
			return msg("stringByAppendingString:"+arg(0), typeString)
		case name == "replace" && arity == 2 && isStringType(vals[0].typ):
			return msg("stringByReplacingOccurrencesOfString:"+arg(0)+" withString:"+arg(1), typeString)
		case name == "toString" && arity == 0:
			return recv
		}
	}

	switch collectionKind(recv.typ) {
	case "list":
		elem := v.resultType(ctx, elementType(recv.typ, 0))
		switch {
		case name == "size" && arity == 0:
			return value{text: "(int)[" + r + " count]", typ: typeInt}
		case name == "get" && arity == 1:
			return msg("objectAtIndex:"+unboxed(vals[0]), elem)
		case name == "add" && arity == 1:
			return msg("addObject:"+boxed(0), typeVoid)
		case name == "add" && arity == 2:
			return msg("insertObject:"+boxed(1)+" atIndex:"+unboxed(vals[0]), typeVoid)
		case name == "set" && arity == 2:
			return msg("replaceObjectAtIndex:"+unboxed(vals[0])+" withObject:"+boxed(1), typeVoid)
		case name == "remove" && arity == 1 && numericType(vals[0].typ).Name == "int" && vals[0].typ.IsPrimitive():
			return msg("removeObjectAtIndex:"+arg(0), typeVoid)
		case name == "remove" && arity == 1:
			return msg("removeObject:"+boxed(0), typeVoid)
		case name == "contains" && arity == 1:
			return msg("containsObject:"+boxed(0), typeBoolean)
		case name == "indexOf" && arity == 1:
			return value{text: "(int)[" + r + " indexOfObject:" + boxed(0) + "]", typ: typeInt}
		case name == "addAll" && arity == 1:
			return msg("addObjectsFromArray:"+arg(0), typeVoid)
		}
	case "map":
		key := v.resultType(ctx, elementType(recv.typ, 0))
		val := v.resultType(ctx, elementType(recv.typ, 1))
		switch {
		case name == "size" && arity == 0:
			return value{text: "(int)[" + r + " count]", typ: typeInt}
		case name == "put" && arity == 2:
			return msg("setObject:"+boxed(1)+" forKey:"+boxed(0), typeVoid)
		case name == "get" && arity == 1:
			return msg("objectForKey:"+boxed(0), val)
		case name == "containsKey" && arity == 1:
			return value{text: "([" + r + " objectForKey:" + boxed(0) + "] != nil)", typ: typeBoolean}
		case name == "getOrDefault" && arity == 2:
			return value{text: "([" + r + " objectForKey:" + boxed(0) + "] ?: " + boxed(1) + ")", typ: val}
		case name == "remove" && arity == 1:
			return msg("removeObjectForKey:"+boxed(0), typeVoid)
		case name == "keySet" && arity == 0:
			return msg("allKeys", java.Type{Name: "List", TypeArgs: []java.Type{key}})
		case name == "values" && arity == 0:
			return msg("allValues", java.Type{Name: "List", TypeArgs: []java.Type{val}})
		}
	case "set":
		switch {
		case name == "size" && arity == 0:
			return value{text: "(int)[" + r + " count]", typ: typeInt}
		case name == "add" && arity == 1:
			return msg("addObject:"+boxed(0), typeVoid)
		case name == "contains" && arity == 1:
			return msg("containsObject:"+boxed(0), typeBoolean)
		case name == "remove" && arity == 1:
			return msg("removeObject:"+boxed(0), typeVoid)
		}
	case "builder":
		target := r
		if recv.builder != "" {
			target = recv.builder
		}
		switch {
		case name == "append" && arity == 1:
			spec, text := formatArg(vals[0])
			appended := "[" + target + ` appendFormat:@"` + spec + `", ` + text + "]"
			if vals[0].isLit {
				appended = "[" + target + " appendString:" + vals[0].text + "]"
			}
			if recv.builder != "" {
				appended = r + ", " + appended
			}
			return value{text: appended, typ: recv.typ, builder: target}
		case name == "toString" && arity == 0:
			if recv.builder != "" {
				return value{text: "(" + r + ", [" + target + " copy])", typ: typeString}
			}
			return msg("copy", typeString)
		case name == "length" && arity == 0:
			return value{text: "(int)[" + target + " length]", typ: typeInt}
		}
	}

	if collectionKind(recv.typ) != "" {
		switch {
		case name == "isEmpty" && arity == 0:
			return value{text: "([" + r + " count] == 0)", typ: typeBoolean}
		case name == "clear" && arity == 0:
			return msg("removeAllObjects", typeVoid)
		}
	}

	if isBoxedType(recv.typ.Name) && arity == 0 && strings.HasSuffix(name, "Value") {
		prim := strings.TrimSuffix(name, "Value")
		if sel := unboxSelector(prim); sel != "" {
			return msg(sel, java.Type{Name: prim})
		}
	}

	switch {
	case name == "equals" && arity == 1:
		return msg("isEqual:"+boxed(0), typeBoolean)
	case name == "hashCode" && arity == 0:
		return value{text: "(int)[" + r + " hash]", typ: typeInt}
	case name == "toString" && arity == 0:
		return msg("description", typeString)
	case name == "getClass" && arity == 0:
		return msg("class", java.Type{Name: "Class"})
	case name == "compareTo" && arity == 1 && ctx.members(recv.typ.Name) == nil:
		return value{text: "(int)[" + r + " compare:" + boxed(0) + "]", typ: typeInt}
	}

	keywords := genericKeywords(name, false, arity)
	argText := texts(vals)
	var result java.Type
	if info, ok := ctx.lookupMethod(recv.typ.Name, name, arity); ok {
		keywords = objc.SelectorKeywords(name, false, info.params)
		argText = coerceArgs(vals, info.paramTypes)
		result = info.result
	}
	return value{text: send(r, keywords, argText), typ: result}
}

// concatOperands flattens a string concatenation into its operands. Leading
// numeric operands are summed first, as Java evaluates them.
func (v TranslateVisitor) concatOperands(ctx *GeneratorContext, n *parser.Node) ([]value, error) {
	parts, _, err := v.collectConcat(ctx, n)
	return parts, err
}

func (v TranslateVisitor) collectConcat(ctx *GeneratorContext, n *parser.Node) ([]value, bool, error) {
	if n.Kind != parser.KindBinaryExpr || n.Children[1].TokenLiteral() != "+" {
		val, err := v.expr(ctx, n)
		if err != nil {
			return nil, false, err
		}
		return []value{val}, isStringType(val.typ), nil
	}
	left, isString, err := v.collectConcat(ctx, n.Children[0])
	if err != nil {
		return nil, false, err
	}
	right, err := v.expr(ctx, n.Children[2])
	if err != nil {
		return nil, false, err
	}
	if isString || isStringType(right.typ) {
		return append(left, right), true, nil
	}
	sum := value{
		text: unboxed(left[0]) + " + " + unboxed(right),
		typ:  promote(left[0].typ, right.typ),
	}
	return []value{sum}, false, nil
}

// formatArg returns the format directive and argument that print val.
func formatArg(val value) (string, string) {
	t := numericType(val.typ)
	switch {
	case t.Name == "boolean" && !t.IsArray():
		return "%@", "(" + unboxed(val) + ` ? @"true" : @"false")`
	case t.IsPrimitive():
		spec := primitiveTypes[t.Name].FormatSpecifier()
		if t.Name == "float" {
			return spec, "(double)" + unboxed(val)
		}
		return spec, unboxed(val)
	}
	return "%@", val.text
}

// formatFrom builds an NSString format and its arguments from concatenated
// operands. String literals are inlined.
func formatFrom(parts []value) (string, []string) {
	var format strings.Builder
	var args []string
	for _, part := range parts {
		if part.isLit {
			format.WriteString(strings.ReplaceAll(part.lit, "%", "%%"))
			continue
		}
		spec, arg := formatArg(part)
		format.WriteString(spec)
		args = append(args, arg)
	}
	return format.String(), args
}

// stringFromParts renders concatenated operands as one NSString expression.
func (v TranslateVisitor) stringFromParts(parts []value) value {
	if len(parts) == 1 && isStringType(parts[0].typ) && !parts[0].isLit {
		return value{text: "[NSString stringWithFormat:@\"%@\", " + parts[0].text + "]", typ: typeString}
	}
	format, args := formatFrom(parts)
	if len(args) == 0 {
		var lit strings.Builder
		for _, part := range parts {
			lit.WriteString(part.lit)
		}
		return value{text: `@"` + lit.String() + `"`, typ: typeString, lit: lit.String(), isLit: true}
	}
	return value{
		text: "[NSString stringWithFormat:" + strings.Join(append([]string{`@"` + format + `"`}, args...), ", ") + "]",
		typ:  typeString,
	}
}

func (v TranslateVisitor) newObject(ctx *GeneratorContext, n *parser.Node) (value, error) {
	typeNode := n.Children[0]
	if typeNode.Kind != parser.KindType {
		return value{}, unsupported("qualified class instance creation", n)
	}
	if body := n.FirstChildOfKind(parser.KindBlock); body != nil {
		return value{}, unsupported("anonymous class", body)
	}
	t := java.TypeFromNode(typeNode)
	vals, err := v.argValues(ctx, n.FirstChildOfKind(parser.KindParameters))
	if err != nil {
		return value{}, err
	}
	simple := t.SimpleName()
	one := len(vals) == 1
	var argKind string
	if one {
		argKind = collectionKind(vals[0].typ)
	}
	isCount := one && numericType(vals[0].typ).Name == "int"

	if ctx.members(simple) == nil {
		switch collectionKind(t) {
		case "list":
			switch {
			case len(vals) == 0:
				return value{text: "[NSMutableArray array]", typ: t}, nil
			case isCount:
				return value{text: "[NSMutableArray arrayWithCapacity:" + unboxed(vals[0]) + "]", typ: t}, nil
			case argKind == "set":
				return value{text: "[NSMutableArray arrayWithArray:[" + vals[0].text + " allObjects]]", typ: t}, nil
			case one:
				return value{text: "[NSMutableArray arrayWithArray:" + vals[0].text + "]", typ: t}, nil
			}
		case "map":
			switch {
			case len(vals) == 0:
				return value{text: "[NSMutableDictionary dictionary]", typ: t}, nil
			case isCount:
				return value{text: "[NSMutableDictionary dictionaryWithCapacity:" + unboxed(vals[0]) + "]", typ: t}, nil
			case one:
				return value{text: "[NSMutableDictionary dictionaryWithDictionary:" + vals[0].text + "]", typ: t}, nil
			}
		case "set":
			switch {
			case len(vals) == 0:
				return value{text: "[NSMutableSet set]", typ: t}, nil
			case isCount:
				return value{text: "[NSMutableSet setWithCapacity:" + unboxed(vals[0]) + "]", typ: t}, nil
			case argKind == "set":
				return value{text: "[NSMutableSet setWithSet:" + vals[0].text + "]", typ: t}, nil
			case one:
				return value{text: "[NSMutableSet setWithArray:" + vals[0].text + "]", typ: t}, nil
			}
		case "builder":
			switch {
			case len(vals) == 0:
				return value{text: "[NSMutableString string]", typ: t}, nil
			case isCount:
				return value{text: "[NSMutableString stringWithCapacity:" + unboxed(vals[0]) + "]", typ: t}, nil
			case one:
				return value{text: "[NSMutableString stringWithString:" + vals[0].text + "]", typ: t}, nil
			}
		}

		switch cls := ctx.mapper.Class(t.Name); {
		case cls == objc.NSString && len(vals) == 0:
			return value{text: `@""`, typ: typeString}, nil
		case cls == objc.NSString && one:
			return value{text: "[NSString stringWithString:" + vals[0].text + "]", typ: typeString}, nil
		case cls == objc.NSNumber && one:
			return value{text: "@(" + unboxed(vals[0]) + ")", typ: t}, nil
		case cls == objc.NSException && len(vals) <= 1:
			reason := "nil"
			if one {
				reason = vals[0].text
			}
			return value{
				text: `[NSException exceptionWithName:@"` + simple + `" reason:` + reason + " userInfo:nil]",
				typ:  t,
			}, nil
		}
	}

	cls := ctx.classType(t.Name)
	table := ctx.members(simple)
	keywords := v.constructorKeywords(table, len(vals))
	argText := texts(vals)
	if info, ok := table.constructor(len(vals)); ok {
		argText = coerceArgs(vals, info.paramTypes)
	}
	return value{text: send("["+cls.Name()+" alloc]", keywords, argText), typ: t}, nil
}

func (v TranslateVisitor) newArray(ctx *GeneratorContext, n *parser.Node) (value, error) {
	init := n.FirstChildOfKind(parser.KindArrayInit)
	if init == nil {
		return value{}, unsupported("array creation without initializer", n)
	}
	t := java.TypeFromNode(n.Children[0])
	dims := 0
	for _, c := range n.TokenLiteral() {
		if c < '0' || c > '9' {
			dims = 0
			break
		}
		dims = dims*10 + int(c-'0')
	}
	if dims == 0 {
		dims = 1
	}
	t.ArrayDepth += dims
	return v.arrayLiteral(ctx, init, t)
}

// arrayLiteral renders an initializer as a mutable array, boxing primitive
// elements.
func (v TranslateVisitor) arrayLiteral(ctx *GeneratorContext, n *parser.Node, arrayType java.Type) (value, error) {
	if !arrayType.IsArray() {
		arrayType.ArrayDepth = 1
	}
	ctx.addImport(objc.NSMutableArray)
	if len(n.Children) == 0 {
		return value{text: "[NSMutableArray array]", typ: arrayType}, nil
	}
	elemType := arrayType.ElementType()
	elems := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		if child.Kind == parser.KindArrayInit {
			inner, err := v.arrayLiteral(ctx, child, elemType)
			if err != nil {
				return value{}, err
			}
			elems = append(elems, inner.text)
			continue
		}
		val, err := v.expr(ctx, child)
		if err != nil {
			return value{}, err
		}
		elems = append(elems, coerce(val, typeObject))
	}
	return value{text: "[NSMutableArray arrayWithArray:@[" + strings.Join(elems, ", ") + "]]", typ: arrayType}, nil
}

// initializer translates the initial value of a declaration of type declared.
func (v TranslateVisitor) initializer(ctx *GeneratorContext, n *parser.Node, declared java.Type) (value, error) {
	if n.Kind == parser.KindArrayInit {
		return v.arrayLiteral(ctx, n, declared)
	}
	val, err := v.expr(ctx, n)
	if err != nil {
		return value{}, err
	}
	val.text = coerce(val, declared)
	return val, nil
}

func (v TranslateVisitor) arrayAccess(ctx *GeneratorContext, n *parser.Node) (value, error) {
	arr, err := v.expr(ctx, n.Children[0])
	if err != nil {
		return value{}, err
	}
	idx, err := v.expr(ctx, n.Children[1])
	if err != nil {
		return value{}, err
	}
	elem := arr.typ.ElementType()
	text := arr.text + "[" + unboxed(idx) + "]"
	if elem.IsPrimitive() {
		return value{text: "[" + text + " " + unboxSelector(elem.Name) + "]", typ: elem}, nil
	}
	return value{text: text, typ: elem}, nil
}

func (v TranslateVisitor) assign(ctx *GeneratorContext, n *parser.Node) (value, error) {
	left, right := n.Children[0], n.Children[2]
	op := n.Children[1].TokenLiteral()

	if left.Kind == parser.KindArrayAccess {
		return v.assignElement(ctx, left, op, right)
	}

	lv, err := v.expr(ctx, left)
	if err != nil {
		return value{}, err
	}
	if op == "+=" && isStringType(lv.typ) {
		parts, err := v.concatOperands(ctx, right)
		if err != nil {
			return value{}, err
		}
		joined := v.stringFromParts(append([]value{lv}, parts...))
		return value{text: lv.text + " = " + joined.text, typ: lv.typ}, nil
	}

	rv, err := v.expr(ctx, right)
	if err != nil {
		return value{}, err
	}
	switch op {
	case "=":
		return value{text: lv.text + " = " + coerce(rv, lv.typ), typ: lv.typ}, nil
	case ">>>=":
		return value{text: lv.text + " = " + unsignedShift(lv, rv), typ: lv.typ}, nil
	}
	return value{text: lv.text + " " + op + " " + unboxed(rv), typ: lv.typ}, nil
}

func (v TranslateVisitor) assignElement(ctx *GeneratorContext, left *parser.Node, op string, right *parser.Node) (value, error) {
	arr, err := v.expr(ctx, left.Children[0])
	if err != nil {
		return value{}, err
	}
	idx, err := v.expr(ctx, left.Children[1])
	if err != nil {
		return value{}, err
	}
	rv, err := v.expr(ctx, right)
	if err != nil {
		return value{}, err
	}
	elem := arr.typ.ElementType()
	slot := arr.text + "[" + unboxed(idx) + "]"

	if op == "=" {
		return value{text: slot + " = " + coerce(rv, typeObject), typ: elem}, nil
	}
	if !elem.IsPrimitive() {
		return value{}, unsupported("compound assignment to object array element", left)
	}
	current := "[" + slot + " " + unboxSelector(elem.Name) + "]"
	binop := strings.TrimSuffix(op, "=")
	if binop == ">>>" {
		return value{text: slot + " = @(" + unsignedShift(value{text: current, typ: elem}, rv) + ")", typ: elem}, nil
	}
	return value{text: slot + " = @(" + current + " " + binop + " " + unboxed(rv) + ")", typ: elem}, nil
}

func unsignedShift(l, r value) string {
	if numericType(l.typ).Name == "long" {
		return "(long long)((unsigned long long)" + unboxed(l) + " >> " + unboxed(r) + ")"
	}
	return "(int)((unsigned int)" + unboxed(l) + " >> " + unboxed(r) + ")"
}

func (v TranslateVisitor) ternary(ctx *GeneratorContext, n *parser.Node) (value, error) {
	cond, err := v.expr(ctx, n.Children[0])
	if err != nil {
		return value{}, err
	}
	a, err := v.expr(ctx, n.Children[1])
	if err != nil {
		return value{}, err
	}
	b, err := v.expr(ctx, n.Children[2])
	if err != nil {
		return value{}, err
	}
	typ := a.typ
	if typ.Name == "null" || typ.Name == "" {
		typ = b.typ
	}
	return value{text: unboxed(cond) + " ? " + a.text + " : " + b.text, typ: typ}, nil
}

func (v TranslateVisitor) binary(ctx *GeneratorContext, n *parser.Node) (value, error) {
	op := n.Children[1].TokenLiteral()
	if op == "+" {
		parts, err := v.concatOperands(ctx, n)
		if err != nil {
			return value{}, err
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return v.stringFromParts(parts), nil
	}

	l, err := v.expr(ctx, n.Children[0])
	if err != nil {
		return value{}, err
	}
	r, err := v.expr(ctx, n.Children[2])
	if err != nil {
		return value{}, err
	}

	switch op {
	case ">>>":
		return value{text: unsignedShift(l, r), typ: numericType(l.typ)}, nil
	case "==", "!=":
		if l.typ.IsPrimitive() || r.typ.IsPrimitive() {
			return value{text: unboxed(l) + " " + op + " " + unboxed(r), typ: typeBoolean}, nil
		}
		return value{text: l.text + " " + op + " " + r.text, typ: typeBoolean}, nil
	case "<", ">", "<=", ">=", "&&", "||":
		return value{text: unboxed(l) + " " + op + " " + unboxed(r), typ: typeBoolean}, nil
	case "&", "|", "^":
		typ := promote(l.typ, r.typ)
		if numericType(l.typ).Name == "boolean" {
			typ = typeBoolean
		}
		return value{text: unboxed(l) + " " + op + " " + unboxed(r), typ: typ}, nil
	case "<<", ">>":
		return value{text: unboxed(l) + " " + op + " " + unboxed(r), typ: numericType(l.typ)}, nil
	}
	return value{text: unboxed(l) + " " + op + " " + unboxed(r), typ: promote(l.typ, r.typ)}, nil
}

func (v TranslateVisitor) unary(ctx *GeneratorContext, n *parser.Node) (value, error) {
	op := n.Children[0].TokenLiteral()
	if op == "++" || op == "--" {
		return v.step(ctx, n.Children[1], op, true)
	}
	operand, err := v.expr(ctx, n.Children[1])
	if err != nil {
		return value{}, err
	}
	if op == "!" {
		return value{text: "!" + unboxed(operand), typ: typeBoolean}, nil
	}
	return value{text: op + unboxed(operand), typ: numericType(operand.typ)}, nil
}

// step renders ++ or -- applied to target. Array elements and boxed
// variables hold NSNumber objects, so they are stored again with the
// stepped value.
func (v TranslateVisitor) step(ctx *GeneratorContext, target *parser.Node, op string, prefix bool) (value, error) {
	delta := op[:1] + " 1"
	if target.Kind == parser.KindArrayAccess {
		arr, err := v.expr(ctx, target.Children[0])
		if err != nil {
			return value{}, err
		}
		idx, err := v.expr(ctx, target.Children[1])
		if err != nil {
			return value{}, err
		}
		elem := arr.typ.ElementType()
		if !elem.IsPrimitive() {
			return value{}, unsupported(op+" on object array element", target)
		}
		slot := arr.text + "[" + unboxed(idx) + "]"
		current := "[" + slot + " " + unboxSelector(elem.Name) + "]"
		return value{text: slot + " = @(" + current + " " + delta + ")", typ: elem}, nil
	}

	operand, err := v.expr(ctx, target)
	if err != nil {
		return value{}, err
	}
	if isBoxedType(operand.typ.Name) && !operand.typ.IsArray() {
		return value{text: operand.text + " = @(" + unboxed(operand) + " " + delta + ")", typ: operand.typ}, nil
	}
	if prefix {
		return value{text: op + operand.text, typ: operand.typ}, nil
	}
	return value{text: operand.text + op, typ: operand.typ}, nil
}

func (v TranslateVisitor) cast(ctx *GeneratorContext, n *parser.Node) (value, error) {
	target := java.TypeFromNode(n.Children[0])
	val, err := v.expr(ctx, n.Children[1])
	if err != nil {
		return value{}, err
	}
	if target.IsPrimitive() {
		if !val.typ.IsPrimitive() && val.typ.Name != "" {
			return value{text: "[" + val.text + " " + unboxSelector(target.Name) + "]", typ: target}, nil
		}
		return value{text: "(" + ctx.mapType(target).String() + ")" + val.text, typ: target}, nil
	}
	if isBoxedType(target.Name) && val.typ.IsPrimitive() {
		return value{text: box(val), typ: target}, nil
	}
	return value{text: "(" + ctx.mapType(target).String() + ")" + val.text, typ: target}, nil
}

func (v TranslateVisitor) instanceof(ctx *GeneratorContext, n *parser.Node) (value, error) {
	if len(n.Children) > 2 {
		return value{}, unsupported("instanceof pattern", n.Children[2])
	}
	val, err := v.expr(ctx, n.Children[0])
	if err != nil {
		return value{}, err
	}
	target := java.TypeFromNode(n.Children[1])
	ref := ctx.mapType(target)
	if !ref.IsObject() || ref.Object == objc.ID {
		return value{}, unsupported("instanceof "+target.String(), n.Children[1])
	}
	if ref.Object.IsInterfaceLike() {
		return value{text: "[" + val.text + " conformsToProtocol:@protocol(" + ref.Object.Name() + ")]", typ: typeBoolean}, nil
	}
	return value{text: "[" + val.text + " isKindOfClass:[" + ref.Object.Name() + " class]]", typ: typeBoolean}, nil
}

func (v TranslateVisitor) classLiteral(ctx *GeneratorContext, n *parser.Node) (value, error) {
	var target java.Type
	switch child := n.Children[0]; child.Kind {
	case parser.KindType, parser.KindArrayType:
		target = java.TypeFromNode(child)
	case parser.KindIdentifier:
		target = java.Type{Name: child.TokenLiteral()}
	default:
		return value{}, unsupported("class literal of "+child.Kind.String(), child)
	}
	ref := ctx.mapType(target)
	if !ref.IsObject() {
		return value{}, unsupported("primitive class literal", n)
	}
	if ref.Object.IsInterfaceLike() {
		return value{text: "@protocol(" + ref.Object.Name() + ")", typ: java.Type{Name: "Protocol"}}, nil
	}
	return value{text: "[" + ref.Object.Name() + " class]", typ: java.Type{Name: "Class"}}, nil
}
