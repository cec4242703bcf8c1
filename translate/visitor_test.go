package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/objc"
)

// translateSources declares every source as one batch and translates the
// last one.
func translateSources(t *testing.T, sources ...string) (*Result, error) {
	t.Helper()
	tr := NewTranslator(Options{OutputDir: t.TempDir()})
	var units []*parser.Node
	for _, src := range sources {
		cu, err := parser.Parse([]byte(src), parser.WithFile("Test.java"))
		require.NoError(t, err)
		tr.registry.declareUnit(cu)
		units = append(units, cu)
	}
	return tr.translateUnit("Test.java", units[len(units)-1])
}

func render(t *testing.T, sources ...string) (header, impl string) {
	t.Helper()
	res, err := translateSources(t, sources...)
	require.NoError(t, err)
	return objc.RenderDeclaration(res.Type), objc.RenderDefinition(res.Type)
}

func TestTranslatePrintlnConcatenation(t *testing.T) {
	header, impl := render(t, `
public class Hello {
    public static void main(String[] args) {
        System.out.println("Hello, " + args.length + " args");
    }
}`)

	assert.Contains(t, header, "@interface Hello : NSObject")
	assert.Contains(t, header, "+ (void)main:(NSMutableArray *)args;")
	assert.Contains(t, impl, `NSLog(@"Hello, %d args", (int)[args count]);`)
}

func TestTranslateSelectorsFromParameterNames(t *testing.T) {
	header, impl := render(t, `
public class Calculator {
    private int total;

    public int add(int a, int b) {
        return a + b;
    }

    public void accumulate(int n) {
        total = add(total, n);
    }
}`)

	assert.Contains(t, header, "- (int)add:(int)a b:(int)b;")
	assert.Contains(t, header, "int total;")
	assert.Contains(t, impl, "return a + b;")
	assert.Contains(t, impl, "total = [self add:total b:n];")
}

func TestTranslateStaticMembers(t *testing.T) {
	header, impl := render(t, `
public class Counter {
    private static int count = 0;
    public static final String NAME = "counter";

    public Counter() {
        count++;
    }

    public static int getCount() {
        return count;
    }
}`)

	assert.Contains(t, header, "extern NSString *Counter_NAME;")
	assert.Contains(t, header, "+ (int)getCount;")
	assert.NotContains(t, header, "Counter_count")
	assert.Contains(t, impl, "static int Counter_count = 0;")
	assert.Contains(t, impl, `NSString *Counter_NAME = @"counter";`)
	assert.Contains(t, impl, "Counter_count++;")
	assert.Contains(t, impl, "return Counter_count;")
}

func TestTranslateSuperclassAcrossUnits(t *testing.T) {
	animal := `
public class Animal {
    protected String name;

    public Animal(String name) {
        this.name = name;
    }

    public String speak() {
        return "...";
    }
}`
	dog := `
public class Dog extends Animal {
    public Dog(String name) {
        super(name);
    }

    public String speak() {
        return name + " says woof";
    }
}`

	_, animalImpl := render(t, animal)
	assert.Contains(t, animalImpl, "- (instancetype)initWithName:(NSString *)name")
	assert.Contains(t, animalImpl, "self->name = name;")

	header, impl := render(t, animal, dog)
	assert.Contains(t, header, `#import "Animal.h"`)
	assert.Contains(t, header, "@interface Dog : Animal")
	assert.Contains(t, impl, "self = [super initWithName:name];")
	assert.Contains(t, impl, `return [NSString stringWithFormat:@"%@ says woof", name];`)
}

func TestTranslateInterfaceAsProtocol(t *testing.T) {
	shape := `
public interface Shape {
    double area();
}`
	circle := `
public class Circle implements Shape {
    private double radius;

    public double area() {
        return Math.PI * radius * radius;
    }
}`

	header, impl := render(t, shape)
	assert.Contains(t, header, "@protocol Shape <NSObject>")
	assert.Contains(t, header, "- (double)area;")
	assert.NotContains(t, impl, "@implementation")

	header, impl = render(t, shape, circle)
	assert.Contains(t, header, "@interface Circle : NSObject <Shape>")
	assert.Contains(t, header, `#import "Shape.h"`)
	assert.Contains(t, impl, "return M_PI * radius * radius;")
}

func TestTranslateCollections(t *testing.T) {
	_, impl := render(t, `
import java.util.ArrayList;
import java.util.List;

public class Inventory {
    private List<String> items = new ArrayList<>();

    public void add(String item) {
        items.add(item);
    }

    public int size() {
        return items.size();
    }

    public String first() {
        return items.get(0);
    }
}`)

	assert.Contains(t, impl, "items = [NSMutableArray array];")
	assert.Contains(t, impl, "[items addObject:item];")
	assert.Contains(t, impl, "return (int)[items count];")
	assert.Contains(t, impl, "return [items objectAtIndex:0];")
	assert.NotContains(t, impl, `#import "ArrayList.h"`)
}

func TestTranslateBoxesPrimitivesIntoCollections(t *testing.T) {
	_, impl := render(t, `
import java.util.List;

public class Scores {
    private List<Integer> scores;

    public void record(int score) {
        scores.add(score);
    }

    public int sum() {
        int total = 0;
        for (int s : scores) {
            total += s;
        }
        return total;
    }
}`)

	assert.Contains(t, impl, "[scores addObject:@(score)];")
	assert.Contains(t, impl, "for (NSNumber *sBoxed in scores) {")
	assert.Contains(t, impl, "int s = [sBoxed intValue];")
	assert.Contains(t, impl, "total += s;")
}

func TestTranslateIncrementOfBoxedStorage(t *testing.T) {
	_, impl := render(t, `
public class Tally {
    public void bump(int[] a, Integer count) {
        a[2]++;
        --a[0];
        a[1] += 2;
        count++;
        for (int i = 0; i < 3; i++) {
        }
    }
}`)

	assert.Contains(t, impl, "a[2] = @([a[2] intValue] + 1);")
	assert.Contains(t, impl, "a[0] = @([a[0] intValue] - 1);")
	assert.Contains(t, impl, "a[1] = @([a[1] intValue] + 2);")
	assert.Contains(t, impl, "count = @([count intValue] + 1);")
	assert.Contains(t, impl, "for (int i = 0; i < 3; i++) {")
	assert.NotContains(t, impl, "intValue]++")
}

func TestTranslateIncrementOfObjectElementIsUnsupported(t *testing.T) {
	_, err := translateSources(t, `
public class Names {
    public void f(String[] names) {
        names[0]++;
    }
}`)
	require.Error(t, err)
	var unsupportedErr *UnsupportedError
	require.True(t, As(err, &unsupportedErr))
	assert.Equal(t, "++ on object array element", unsupportedErr.Kind)
}

func TestTranslateConcatenatesFloatingPointShortest(t *testing.T) {
	_, impl := render(t, `
public class Price {
    public String label(double amount, float rate) {
        return "amount " + amount + " at " + rate;
    }
}`)

	assert.Contains(t, impl, `[NSString stringWithFormat:@"amount %g at %g", amount, (double)rate]`)
	assert.NotContains(t, impl, "%f")
}

func TestTranslateControlFlow(t *testing.T) {
	_, impl := render(t, `
public class Loops {
    public int run(int n) {
        int acc = 0;
        for (int i = 0; i < n; i++) {
            if (i % 2 == 0) {
                continue;
            } else {
                acc += i;
            }
        }
        while (acc > 100) {
            acc = acc / 2;
        }
        switch (n) {
        case 1:
            acc = 1;
            break;
        default:
            acc = 0;
        }
        return acc;
    }
}`)

	assert.Contains(t, impl, "int acc = 0;")
	assert.Contains(t, impl, "for (int i = 0; i < n; i++) {")
	assert.Contains(t, impl, "if (i % 2 == 0) {")
	assert.Contains(t, impl, "} else {")
	assert.Contains(t, impl, "while (acc > 100) {")
	assert.Contains(t, impl, "switch (n) {")
	assert.Contains(t, impl, "case 1:")
	assert.Contains(t, impl, "default:")
}

func TestTranslateExceptions(t *testing.T) {
	_, impl := render(t, `
public class Guard {
    public void check(int n) {
        try {
            if (n < 0) {
                throw new IllegalArgumentException("negative");
            }
        } catch (IllegalArgumentException e) {
            System.out.println("bad input");
        } finally {
            System.out.println("done");
        }
    }
}`)

	assert.Contains(t, impl, `@throw [NSException exceptionWithName:@"IllegalArgumentException" reason:@"negative" userInfo:nil];`)
	assert.Contains(t, impl, "@try {")
	assert.Contains(t, impl, "@catch (NSException *e) {")
	assert.Contains(t, impl, "@finally {")
	assert.Contains(t, impl, `NSLog(@"bad input");`)
}

func TestTranslatePrintfAndStringMethods(t *testing.T) {
	_, impl := render(t, `
public class Greeter {
    public void greet(String name, boolean loud) {
        System.out.printf("Hi %s%n", name);
        if (name.isEmpty()) {
            return;
        }
        String upper = name.toUpperCase();
        System.out.println(upper + " " + loud);
    }
}`)

	assert.Contains(t, impl, `NSLog(@"Hi %@\n", name);`)
	assert.Contains(t, impl, "if (([name length] == 0)) {")
	assert.Contains(t, impl, "NSString *upper = [name uppercaseString];")
	assert.Contains(t, impl, `NSLog(@"%@ %@", upper, (loud ? @"true" : @"false"));`)
}

func TestTranslateUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind string
	}{
		{"enum", "public enum Color { RED, GREEN }", "enum"},
		{"lambda", `public class L { void f() { Runnable r = () -> {}; } }`, "lambda"},
		{"nested type", "public class Outer { class Inner {} }", "nested type"},
		{"generic method", "public class G { <T> T id(T t) { return t; } }", "generic method"},
		{"assert", "public class A { void f() { assert true; } }", "assert"},
		{"labeled statement", "public class B { void f() { outer: while (true) { break outer; } } }", "labeled statement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translateSources(t, tt.src)
			require.Error(t, err)
			assert.True(t, Is(err, ErrUnsupported), "%v", err)

			var unsupportedErr *UnsupportedError
			require.True(t, As(err, &unsupportedErr))
			assert.Equal(t, tt.kind, unsupportedErr.Kind)
		})
	}
}

func TestTranslateEmptyUnitNeedsType(t *testing.T) {
	_, err := translateSources(t, "")
	require.Error(t, err)
	assert.True(t, Is(err, ErrPrecondition))
}

func TestTranslateErrorNodesAreParseErrors(t *testing.T) {
	cu := &parser.Node{Kind: parser.KindCompilationUnit}
	cu.AddChild(&parser.Node{Kind: parser.KindError, Error: &parser.Error{Message: "expected \";\""}})

	ctx := NewGeneratorContext("Broken.java", nil, nil)
	err := TranslateVisitor{}.Visit(cu, ctx)
	require.Error(t, err)
	assert.True(t, Is(err, ErrParse))

	var syntaxErr *parser.SyntaxError
	require.True(t, As(err, &syntaxErr))
	assert.Equal(t, "Broken.java", syntaxErr.File)
}

func TestTranslatePendingReferences(t *testing.T) {
	res, err := translateSources(t, `
public class Garage {
    private Car car;
    private String label;
}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Car"}, res.Pending)
}
