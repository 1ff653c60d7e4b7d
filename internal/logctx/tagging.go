package logctx

import (
	"context"

	"github.com/alsa-project/alsa-gobject-sub000/internal/global"
)

// One link in a context's tag chain; children point at their parent's node
type tagNode struct {
	parent *tagNode
	name   string
	depth  int
}

// Adds a tag below whatever the context already carries.
// The parent context keeps its own chain.
func AppendCtxTag(ctx context.Context, newTag string) (newCtx context.Context) {
	parent, _ := ctx.Value(global.LogTagsKey).(*tagNode)

	node := &tagNode{parent: parent, name: newTag, depth: 1}
	if parent != nil {
		node.depth = parent.depth + 1
	}

	newCtx = context.WithValue(ctx, global.LogTagsKey, node)
	return
}

// Tags from broad to specific (empty without any)
func GetTagList(ctx context.Context) (tags []string) {
	node, _ := ctx.Value(global.LogTagsKey).(*tagNode)
	if node == nil {
		tags = []string{}
		return
	}

	tags = make([]string, node.depth)
	for index := node.depth - 1; node != nil; index-- {
		tags[index] = node.name
		node = node.parent
	}
	return
}
