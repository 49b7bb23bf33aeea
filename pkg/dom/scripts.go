// Package dom holds what the live browser backends share: the page scripts
// used to read and write element state.
package dom

// The scripts take the element as their only argument. Hiding remembers
// the inline display value so showing can restore it; showing falls back
// to display:block when a stylesheet keeps the element hidden.
const (
	HideScript = `el => {
	if (el.style.display !== 'none') {
		el.dataset.togglekitDisplay = el.style.display;
	}
	el.style.display = 'none';
}`

	ShowScript = `el => {
	const prev = el.dataset.togglekitDisplay;
	delete el.dataset.togglekitDisplay;
	el.style.display = prev && prev !== 'none' ? prev : '';
	el.removeAttribute('hidden');
	if (getComputedStyle(el).display === 'none') {
		el.style.display = 'block';
	}
}`

	// BoxScript returns document coordinates of the border box.
	BoxScript = `el => {
	const r = el.getBoundingClientRect();
	return {
		x: r.left + window.scrollX,
		y: r.top + window.scrollY,
		width: r.width,
		height: r.height,
	};
}`

	UserAgentScript = `() => navigator.userAgent`
)

// AsMethod wraps an element script so it runs with the element bound to
// this, as rod's Element.Eval expects.
func AsMethod(script string) string {
	return "function() { return (" + script + ")(this) }"
}
