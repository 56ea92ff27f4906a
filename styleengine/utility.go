package styleengine

import "strings"

// UtilityResolver is a small table of utility classes: spacing, colors,
// display, flexbox, typography and sizing.
type UtilityResolver struct {
	Spacing map[string]string
	Colors  map[string]string
}

// NewUtilityResolver returns a resolver with the default scales.
func NewUtilityResolver() *UtilityResolver {
	return &UtilityResolver{
		Spacing: map[string]string{
			"0":  "0",
			"px": "1px",
			"1":  "0.25rem",
			"2":  "0.5rem",
			"3":  "0.75rem",
			"4":  "1rem",
			"5":  "1.25rem",
			"6":  "1.5rem",
			"8":  "2rem",
			"10": "2.5rem",
			"12": "3rem",
			"16": "4rem",
		},
		Colors: map[string]string{
			"white":     "#ffffff",
			"black":     "#000000",
			"red":       "#ff0000",
			"blue":      "#0000ff",
			"green":     "#008000",
			"gray-100":  "#f3f4f6",
			"gray-500":  "#6b7280",
			"gray-800":  "#1f2937",
			"red-500":   "#ef4444",
			"blue-500":  "#3b82f6",
			"green-500": "#22c55e",
		},
	}
}

var fixedUtilities = map[string][]Declaration{
	"block":           {{"display", "block"}},
	"inline":          {{"display", "inline"}},
	"inline-block":    {{"display", "inline-block"}},
	"flex":            {{"display", "flex"}},
	"inline-flex":     {{"display", "inline-flex"}},
	"grid":            {{"display", "grid"}},
	"hidden":          {{"display", "none"}},
	"flex-row":        {{"flex-direction", "row"}},
	"flex-col":        {{"flex-direction", "column"}},
	"flex-wrap":       {{"flex-wrap", "wrap"}},
	"items-start":     {{"align-items", "flex-start"}},
	"items-center":    {{"align-items", "center"}},
	"items-end":       {{"align-items", "flex-end"}},
	"justify-start":   {{"justify-content", "flex-start"}},
	"justify-center":  {{"justify-content", "center"}},
	"justify-end":     {{"justify-content", "flex-end"}},
	"justify-between": {{"justify-content", "space-between"}},
	"text-left":       {{"text-align", "left"}},
	"text-center":     {{"text-align", "center"}},
	"text-right":      {{"text-align", "right"}},
	"text-sm":         {{"font-size", "0.875rem"}, {"line-height", "1.25rem"}},
	"text-base":       {{"font-size", "1rem"}, {"line-height", "1.5rem"}},
	"text-lg":         {{"font-size", "1.125rem"}, {"line-height", "1.75rem"}},
	"text-xl":         {{"font-size", "1.25rem"}, {"line-height", "1.75rem"}},
	"font-normal":     {{"font-weight", "400"}},
	"font-semibold":   {{"font-weight", "600"}},
	"font-bold":       {{"font-weight", "700"}},
	"italic":          {{"font-style", "italic"}},
	"underline":       {{"text-decoration-line", "underline"}},
	"rounded":         {{"border-radius", "0.25rem"}},
	"rounded-full":    {{"border-radius", "9999px"}},
	"border":          {{"border-width", "1px"}},
	"w-full":          {{"width", "100%"}},
	"h-full":          {{"height", "100%"}},
	"w-1/2":           {{"width", "50%"}},
	"cursor-pointer":  {{"cursor", "pointer"}},
}

var spacingUtilities = []struct {
	prefix     string
	properties []string
}{
	{"mx-", []string{"margin-left", "margin-right"}},
	{"my-", []string{"margin-top", "margin-bottom"}},
	{"mt-", []string{"margin-top"}},
	{"mb-", []string{"margin-bottom"}},
	{"ml-", []string{"margin-left"}},
	{"mr-", []string{"margin-right"}},
	{"m-", []string{"margin"}},
	{"px-", []string{"padding-left", "padding-right"}},
	{"py-", []string{"padding-top", "padding-bottom"}},
	{"pt-", []string{"padding-top"}},
	{"pb-", []string{"padding-bottom"}},
	{"pl-", []string{"padding-left"}},
	{"pr-", []string{"padding-right"}},
	{"p-", []string{"padding"}},
	{"gap-", []string{"gap"}},
}

var colorUtilities = []struct {
	prefix   string
	property string
}{
	{"text-", "color"},
	{"bg-", "background-color"},
	{"border-", "border-color"},
}

func (u *UtilityResolver) Resolve(class string) (Rule, bool) {
	if decls, ok := fixedUtilities[class]; ok {
		return Rule{Class: class, Declarations: decls}, true
	}

	for _, s := range spacingUtilities {
		value, ok := strings.CutPrefix(class, s.prefix)
		if !ok {
			continue
		}

		size, ok := u.Spacing[value]
		if !ok {
			return Rule{}, false
		}

		decls := make([]Declaration, len(s.properties))
		for i, p := range s.properties {
			decls[i] = Declaration{p, size}
		}

		return Rule{Class: class, Declarations: decls}, true
	}

	for _, c := range colorUtilities {
		value, ok := strings.CutPrefix(class, c.prefix)
		if !ok {
			continue
		}

		if color, ok := u.Colors[value]; ok {
			return Rule{Class: class, Declarations: []Declaration{{c.property, color}}}, true
		}
	}

	return Rule{}, false
}
