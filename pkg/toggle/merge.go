package toggle

// Merge overlays the given layers from least to most specific. For every
// field the right-most layer that provides a value wins; ByArea is merged
// coordinate by coordinate. The result shares no pointers with the inputs.
func Merge(layers ...Options) Options {
	var out Options
	for _, l := range layers {
		out.TargetBrowser = pick(out.TargetBrowser, l.TargetBrowser)
		out.ParentSelector = pick(out.ParentSelector, l.ParentSelector)
		out.ToggleTo = pick(out.ToggleTo, l.ToggleTo)
		out.ElementSelector = pick(out.ElementSelector, l.ElementSelector)
		out.ElementType = pick(out.ElementType, l.ElementType)
		out.ByArea = mergeArea(out.ByArea, l.ByArea)
		out.ByElement = pick(out.ByElement, l.ByElement)
		out.DefineSet = pick(out.DefineSet, l.DefineSet)
		out.UseSet = pick(out.UseSet, l.UseSet)
		out.ContinueAfterDefineSet = pick(out.ContinueAfterDefineSet, l.ContinueAfterDefineSet)
	}
	return out
}

func mergeArea(base, over Area) Area {
	return Area{
		X:      pick(base.X, over.X),
		Y:      pick(base.Y, over.Y),
		Width:  pick(base.Width, over.Width),
		Height: pick(base.Height, over.Height),
	}
}

func pick[T any](base, over *T) *T {
	if over != nil {
		return clonePtr(over)
	}
	return clonePtr(base)
}
