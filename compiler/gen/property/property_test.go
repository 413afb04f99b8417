package property

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/freebuild/compiler/gen"
)

func TestFor(t *testing.T) {
	h := newMockHelper(t)
	tests := map[string]gen.Shape{
		"title":    gen.ShapeDefault,
		"reader":   gen.ShapeDefault,
		"note":     gen.ShapeNullable,
		"tags":     gen.ShapeList,
		"labels":   gen.ShapeMap,
		"payment":  gen.ShapeBuildable,
		"items":    gen.ShapeBuildableList,
		"payments": gen.ShapeBuildableList,
	}
	for name, shape := range tests {
		t.Run(name, func(t *testing.T) {
			p := h.property(t, name)
			assert.Equal(t, shape, For(p).Shape())
		})
	}
	t.Run("unknown shape", func(t *testing.T) {
		p := *h.property(t, "title")
		p.Shape = gen.Shape(42)
		assert.IsType(t, Default{}, For(&p))
	})
}

func TestMethodNames(t *testing.T) {
	h := newMockHelper(t)
	tests := []struct {
		name string
		want []string
	}{
		{"title", []string{"SetTitle", "MapTitle", "Title"}},
		{"note", []string{"SetNote", "SetNillableNote", "ClearNote", "MapNote", "Note"}},
		{"tags", []string{"AddTags", "AddAllTags", "AddAllTagsSeq", "ClearTags", "Tags"}},
		{"labels", []string{"PutLabels", "PutAllLabels", "PutAllLabelsSeq", "RemoveLabels", "ClearLabels", "Labels"}},
		{"payment", []string{"SetPayment", "SetPaymentBuilder", "PaymentBuilder", "MutatePayment", "ClearPayment"}},
		{"items", []string{"AddItems", "AddItemsBuilder", "AddAllItems", "AddAllItemsSeq", "AddAllBuildersOfItems", "ClearItems", "ItemsBuilders"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := h.property(t, tt.name)
			assert.Equal(t, tt.want, For(p).MethodNames(h, p))
		})
	}

	t.Run("without optional features", func(t *testing.T) {
		h := newMockHelper(t)
		h.features = map[string]bool{}
		h.seq = false
		p := h.property(t, "title")
		assert.Equal(t, []string{"SetTitle", "Title"}, For(p).MethodNames(h, p))
		p = h.property(t, "items")
		assert.NotContains(t, For(p).MethodNames(h, p), "AddAllItemsSeq")
	})
}

// TestMethodNamesMatchEmitted checks that every reported name is emitted.
func TestMethodNamesMatchEmitted(t *testing.T) {
	h := newMockHelper(t)
	d, _ := h.graph.Lookup("Receipt")
	for _, p := range d.Properties {
		t.Run(p.Name, func(t *testing.T) {
			code := h.methods(p)
			for _, name := range For(p).MethodNames(h, p) {
				assert.Contains(t, code, ") "+name+"(")
			}
		})
	}
}

func TestDefault(t *testing.T) {
	h := newMockHelper(t)
	p := h.property(t, "title")
	s := Default{}

	code := h.methods(p)
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) SetTitle(value string) B {")
	assert.Contains(t, code, "b._titleSet = true")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) MapTitle(fn func(string) string) B {")
	assert.Contains(t, code, `panic(freebuild.NewUnsetPropertiesError("Receipt", "title"))`)
	assert.Contains(t, code, "return b.SetTitle(fn(b.title))")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) Title() (string, bool) {")
	assert.NotContains(t, code, "NilArgument(\"Receipt\", \"SetTitle\"")

	assert.Contains(t, h.fragment(p, s.Build(p)), "v.title = b.title")
	assert.Contains(t, h.fragment(p, s.BuildPartial(p)), "v._titleSet = b._titleSet")
	assert.Contains(t, h.fragment(p, s.MergeFrom(p)), "if !isPartial || p._titleSet {")
	assert.Contains(t, h.fragment(p, s.MergeFrom(p)), "b.title = value.Title()")
	assert.Contains(t, h.fragment(p, s.MergeFromBuilder(p)), "if other._titleSet {")
	clear := h.fragment(p, s.Clear(p))
	assert.Contains(t, clear, `b.title = ""`)
	assert.Contains(t, clear, "b._titleSet = false")
	assert.Contains(t, h.fragment(p, s.Accessor(p)), "return v.title")

	t.Run("nil checked", func(t *testing.T) {
		p := h.property(t, "reader")
		code := h.methods(p)
		assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) SetReader(value io.Reader) B {")
		assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "SetReader", "value"))`)
		assert.Contains(t, h.fragment(p, s.Clear(p)), "b.reader = nil")
	})
}

func TestNullable(t *testing.T) {
	h := newMockHelper(t)
	p := h.property(t, "note")
	s := Nullable{}

	code := h.methods(p)
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) SetNote(value string) B {")
	assert.Contains(t, code, "b.note = &value")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) SetNillableNote(value *string) B {")
	assert.Contains(t, code, "return b.SetNote(*value)")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) ClearNote() B {")
	assert.Contains(t, code, "return b.SetNote(fn(*b.note))")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) Note() *string {")

	build := h.fragment(p, s.Build(p))
	assert.Contains(t, build, "value := *b.note")
	assert.Contains(t, build, "v.note = &value")
	assert.Equal(t, build, h.fragment(p, s.BuildPartial(p)))
	merge := h.fragment(p, s.MergeFrom(p))
	assert.Contains(t, merge, "if ptr := value.Note(); ptr != nil {")
	assert.Contains(t, merge, "b.SetNillableNote(ptr)")
	assert.Contains(t, h.fragment(p, s.MergeFromBuilder(p)), "if other.note != nil {")
	assert.Contains(t, h.fragment(p, s.Clear(p)), "b.note = nil")
	accessor := h.fragment(p, s.Accessor(p))
	assert.Contains(t, accessor, "value := *v.note")
	assert.Contains(t, accessor, "return &value")
}

func TestList(t *testing.T) {
	h := newMockHelper(t)
	p := h.property(t, "tags")
	s := List{}

	code := h.methods(p)
	assert.Contains(t, code, "// AddTags appends one tag to the value returned by Receipt.Tags.")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddTags(element string) B {")
	assert.Contains(t, code, "b.tags = append(b.tags, element)")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddAllTags(elements ...string) B {")
	assert.Contains(t, code, "b.tags = append(b.tags, elements...)")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddAllTagsSeq(elements iter.Seq[string]) B {")
	assert.Contains(t, code, "return b.AddAllTags(slices.Collect(elements)...)")
	assert.Contains(t, code, "return slices.Clone(b.tags)")
	assert.NotContains(t, code, "NilArgument(\"Receipt\", \"AddTags\"")

	assert.Contains(t, h.fragment(p, s.Build(p)), "v.tags = slices.Clone(b.tags)")
	assert.Contains(t, h.fragment(p, s.MergeFrom(p)), "b.AddAllTags(value.Tags()...)")
	assert.Contains(t, h.fragment(p, s.MergeFromBuilder(p)), "b.AddAllTags(other.tags...)")
	assert.Contains(t, h.fragment(p, s.Accessor(p)), "return slices.Clone(v.tags)")

	t.Run("nil elements", func(t *testing.T) {
		code := h.methods(h.property(t, "handlers"))
		assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "AddHandlers", "element"))`)
		assert.Contains(t, code, "for i, element := range elements {")
		assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "AddAllHandlers", fmt.Sprintf("elements[%d]", i)))`)
	})

	t.Run("without seq", func(t *testing.T) {
		h := newMockHelper(t)
		h.seq = false
		assert.NotContains(t, h.methods(h.property(t, "tags")), "iter.Seq")
	})
}

func TestMap(t *testing.T) {
	h := newMockHelper(t)
	p := h.property(t, "labels")
	s := Map{}

	code := h.methods(p)
	assert.Contains(t, code, "// PutLabels stores value as the label for key in the map returned by Receipt.Labels.")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) PutLabels(key string, value string) B {")
	assert.Contains(t, code, "b.labels = make(map[string]string)")
	assert.Contains(t, code, "b.labels[key] = value")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) PutAllLabels(entries map[string]string) B {")
	assert.Contains(t, code, "b.labels = make(map[string]string, len(entries))")
	assert.Contains(t, code, "maps.Copy(b.labels, entries)")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) PutAllLabelsSeq(entries iter.Seq2[string, string]) B {")
	assert.Contains(t, code, "return b.PutAllLabels(maps.Collect(entries))")
	assert.Contains(t, code, "delete(b.labels, key)")
	assert.Contains(t, code, "return maps.Clone(b.labels)")
	assert.NotContains(t, code, "range entries")

	build := h.fragment(p, s.Build(p))
	assert.Contains(t, build, "if len(b.labels) > 0 {")
	assert.Contains(t, build, "v.labels = maps.Clone(b.labels)")
	assert.Equal(t, build, h.fragment(p, s.BuildPartial(p)))
	assert.Contains(t, h.fragment(p, s.MergeFrom(p)), "b.PutAllLabels(value.Labels())")
	assert.Contains(t, h.fragment(p, s.MergeFromBuilder(p)), "b.PutAllLabels(other.labels)")
	assert.Contains(t, h.fragment(p, s.Accessor(p)), "return maps.Clone(v.labels)")

	t.Run("nil values", func(t *testing.T) {
		code := h.methods(h.property(t, "hooks"))
		assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "PutHooks", "value"))`)
		assert.Contains(t, code, "for key, value := range entries {")
		assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "PutAllHooks", fmt.Sprintf("entries[%v]", key)))`)
	})

	t.Run("nil keys", func(t *testing.T) {
		code := h.methods(h.property(t, "counts"))
		assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "PutCounts", "key"))`)
		assert.Contains(t, code, "for key := range entries {")
		assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "PutAllCounts", "entries"))`)
	})
}

func TestBuildable(t *testing.T) {
	h := newMockHelper(t)
	p := h.property(t, "payment")
	s := Buildable{}

	fields := h.NewFile(p.Datatype)
	fields.Type().Id("storage").Struct(s.Fields(p)...)
	assert.Contains(t, fields.GoString(), "payment *PaymentBuilder")

	code := h.methods(p)
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) SetPayment(value Payment) B {")
	assert.Contains(t, code, "b.payment = NewPaymentBuilder().MergeFrom(value)")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) SetPaymentBuilder(builder *PaymentBuilder) B {")
	assert.Contains(t, code, "b.payment = NewPaymentBuilder().MergeFromBuilder(builder)")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) PaymentBuilder() *PaymentBuilder {")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) MutatePayment(fn func(*PaymentBuilder)) B {")
	assert.Contains(t, code, "fn(b.PaymentBuilder())")

	build := h.fragment(p, s.Build(p))
	assert.Contains(t, build, "builder := b.payment")
	assert.Contains(t, build, "builder = NewPaymentBuilder()")
	assert.Contains(t, build, "value, err := builder.Build()")
	assert.Contains(t, build, `return nil, freebuild.NewPropertyError("Receipt", "payment", -1, err)`)
	partial := h.fragment(p, s.BuildPartial(p))
	assert.Contains(t, partial, "v.payment = builder.BuildPartial()")
	assert.NotContains(t, partial, "err")

	merge := h.fragment(p, s.MergeFrom(p))
	assert.Contains(t, merge, "if nested := value.Payment(); nested != nil {")
	assert.Contains(t, merge, "b.payment = NewPaymentBuilder().MergeFrom(nested)")
	assert.Contains(t, merge, "b.payment.MergeFrom(nested)")
	mergeBuilder := h.fragment(p, s.MergeFromBuilder(p))
	assert.Contains(t, mergeBuilder, "b.payment = NewPaymentBuilder().MergeFromBuilder(other.payment)")
	assert.Contains(t, mergeBuilder, "b.payment.MergeFromBuilder(other.payment)")
}

func TestBuildableList(t *testing.T) {
	h := newMockHelper(t)
	p := h.property(t, "items")
	s := BuildableList{}

	fields := h.NewFile(p.Datatype)
	fields.Type().Id("storage").Struct(s.Fields(p)...)
	assert.Contains(t, fields.GoString(), "items []*ItemBuilder")

	code := h.methods(p)
	assert.Contains(t, code, "// AddItems appends one item to the value returned by Receipt.Items.")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddItems(element Item) B {")
	assert.Contains(t, code, "b.items = append(b.items, element.ToBuilder())")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddItemsBuilder(builder *ItemBuilder) B {")
	assert.Contains(t, code, "b.items = append(b.items, NewItemBuilder().MergeFromBuilder(builder))")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddAllItems(elements ...Item) B {")
	assert.Contains(t, code, `panic(freebuild.NilArgument("Receipt", "AddAllItems", fmt.Sprintf("elements[%d]", i)))`)
	assert.Contains(t, code, "b.items = slices.Grow(b.items, len(elements))")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddAllItemsSeq(elements iter.Seq[Item]) B {")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) AddAllBuildersOfItems(builders ...*ItemBuilder) B {")
	assert.Contains(t, code, "b.AddItemsBuilder(builder)")
	assert.Contains(t, code, "func (b *ReceiptBuilderBase[B]) ItemsBuilders() []*ItemBuilder {")

	build := h.fragment(p, s.Build(p))
	assert.Contains(t, build, "elements := make([]Item, 0, len(b.items))")
	assert.Contains(t, build, "for i, builder := range b.items {")
	assert.Contains(t, build, `return nil, freebuild.NewPropertyError("Receipt", "items", i, err)`)
	assert.Contains(t, build, "v.items = elements")
	partial := h.fragment(p, s.BuildPartial(p))
	assert.Contains(t, partial, "for _, builder := range b.items {")
	assert.Contains(t, partial, "elements = append(elements, builder.BuildPartial())")

	assert.Contains(t, h.fragment(p, s.MergeFrom(p)), "b.AddAllItems(value.Items()...)")
	assert.Contains(t, h.fragment(p, s.MergeFromBuilder(p)), "b.AddAllBuildersOfItems(other.items...)")
	assert.Contains(t, h.fragment(p, s.Accessor(p)), "return slices.Clone(v.items)")

	t.Run("without ToBuilder", func(t *testing.T) {
		code := h.methods(h.property(t, "payments"))
		assert.Contains(t, code, "b.payments = append(b.payments, NewPaymentBuilder().MergeFrom(element))")
	})
}
