package naming

import (
	"goa.design/goa/v3/codegen"
)

// DefaultClass is the class generated when the model has no name.
const DefaultClass = "MyModel"

// guardPrefix matches the include guards of the DNest4 builder examples.
const guardPrefix = "DNest4_Builder_"

// ClassName converts an arbitrary model name into a C++ class identifier in
// CamelCase ("linear regression" and "linear_regression" both give
// "LinearRegression"). When the result is empty ClassName returns
// DefaultClass.
func ClassName(name string) string {
	s := codegen.Goify(name, true)
	if s == "" {
		return DefaultClass
	}
	return s
}

// IncludeGuard returns the header include guard macro for class.
func IncludeGuard(class string) string {
	return guardPrefix + class
}

// HeaderFile returns the generated header file name for class.
func HeaderFile(class string) string {
	return class + ".h"
}

// SourceFile returns the generated source file name for class.
func SourceFile(class string) string {
	return class + ".cpp"
}

// TemplateFile returns the template file name an artifact is rendered from.
func TemplateFile(artifact string) string {
	return artifact + ".template"
}
