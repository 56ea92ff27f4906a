package dtsgen

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/hxo/ir"
	"github.com/shibukawa/hxo/parser"
	"github.com/shibukawa/hxo/testhelper"
)

func TestGenerateDeclarations(t *testing.T) {
	m, err := parser.Parse("Counter", `<template><button @click="inc">{{ count }}</button></template>
<script>
const props = defineProps(['step', 'max-value']);
const emit = defineEmits(['change']);
const [count, setCount] = createSignal(0);
const doubled = createComputed(() => count() * 2);
function inc() { setCount(count() + 1); }
</script>`, parser.NewDefaultRegistry())
	assert.NoError(t, err)

	code, err := New().Generate(m)
	assert.NoError(t, err)

	expected := testhelper.TrimIndent(t, `
		import { VNode } from '@hxo/core';

		export interface CounterProps {
			step?: any;
			'max-value'?: any;
		}

		export interface CounterEmits {
			(e: 'change', ...args: any[]): void;
		}

		export interface ComponentInstance {
			count: () => any;
			doubled: () => any;
			step: any;
			'max-value': any;
			$props: CounterProps;
			$emit: CounterEmits;
		}

		declare const component: {
			name: 'Counter';
			setup(props: CounterProps): ComponentInstance;
			render(ctx: ComponentInstance): VNode;
		};

		export default component;
	`)

	assert.Equal(t, expected, code)
}

func TestGenerateWithoutScript(t *testing.T) {
	var sb strings.Builder
	assert.NoError(t, New(WithRuntimePath("/rt")).WriteTo(&sb, ir.NewModule("todo-list")))

	code := sb.String()
	assert.Contains(t, code, "import { VNode } from '/rt/core';")
	assert.Contains(t, code, "export interface TodoListProps {\n  [key: string]: any;\n}")
	assert.Contains(t, code, "  $props: TodoListProps;\n}")
	assert.NotContains(t, code, "Emits")
	assert.NotContains(t, code, "$emit")
	assert.Contains(t, code, "name: 'todo-list';")
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Counter", "Counter"},
		{"todo-list", "TodoList"},
		{"userCard", "UserCard"},
		{"order.item", "OrderItem"},
		{"", "Component"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeName(tt.name))
		})
	}
}
