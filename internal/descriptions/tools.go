package descriptions

// Tool descriptions with practical examples and use cases

const (
	FormSchemaDescription = `Discover the fillable form fields of a PDF document and return their schema.

**When to use:** You need to know which fields a form exposes before filling it, or you want to read the currently entered values.

**Why it's useful:** Field names in PDF forms are buried in the document's object graph (parent/kid hierarchies, appearance dictionaries); this tool surfaces them as a flat, ordered list of records with types, current values and choice sets.

**Examples:**
• Inspect an application form: "Get the schema of application.pdf to see which fields need data"
• Read back entered values: "What is currently filled into invoice.pdf?"
• Drive a UI: "List MaritalStatus options so the user can pick one"

**Record shape:** FieldName, FieldType (text|checkbox|radio), FieldValue, FieldOptions, MaxLength.

**Best practices:** An empty result means the document carries no recognized AcroForm fields; list/combo boxes are reported nowhere since they cannot be filled.`

	FormFillDescription = `Fill a PDF form with field values and write the result to a new document.

**When to use:** You have a value for one or more fields (from form_schema) and want a filled copy of the document.

**Why it's useful:** Handles the interdependent value/appearance/selection keys of each field kind correctly, including radio group kid selection and Adobe viewer compatibility quirks, so the filled values actually render.

**Examples:**
• Fill a registration form: "Set Firstname to Jane and Men to true in form.pdf, save as filled.pdf"
• Lock a finished form: "Fill and flatten contract.pdf so fields become read-only"

**Parameters:** data is a JSON object mapping field names to string, number or boolean values; unknown names are ignored. flatten marks every field read-only.

**Best practices:** Checkbox booleans pick the right appearance state automatically; radio groups expect one of the FieldOptions export names.`
)
