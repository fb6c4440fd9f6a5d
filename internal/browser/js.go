// internal/browser/js.go
package browser

// The extraction scripts below run inside the live page. The selector and
// accessible-name logic mirrors the internal/dom package algorithm for
// algorithm; internal/dom is the reference implementation the unit tests
// pin down.

// jsActiveElement snapshots the currently focused element. It reports
// found=false when nothing holds focus or when focus sits on the document
// body or root.
const jsActiveElement = `(() => {
	const escSet = "!\"#$%&'()*+,./:;<=>?@[\\]^" + String.fromCharCode(96) + "{|}~ ";
	const esc = (s) => s.split('').map(ch => escSet.includes(ch) ? '\\' + ch : ch).join('');

	const selectorFor = (el) => {
		if (el.id) return '#' + esc(el.id);
		const parts = [];
		let cur = el;
		while (cur && cur.nodeType === 1 && parts.length < 4) {
			let part = cur.tagName.toLowerCase();
			for (const cls of cur.classList) part += '.' + esc(cls);
			const parent = cur.parentElement;
			if (parent) {
				const same = Array.from(parent.children).filter(c => c.tagName === cur.tagName);
				if (same.length > 1) part += ':nth-of-type(' + (same.indexOf(cur) + 1) + ')';
			}
			parts.unshift(part);
			cur = cur.parentElement;
		}
		return parts.join(' > ');
	};

	const nameFor = (el) => {
		const t = (v) => (v || '').trim();
		const ariaLabel = t(el.getAttribute('aria-label'));
		if (ariaLabel) return ariaLabel;
		const labelledBy = t(el.getAttribute('aria-labelledby'));
		if (labelledBy) {
			const text = labelledBy.split(/\s+/)
				.map(id => { const ref = document.getElementById(id); return ref ? t(ref.textContent) : ''; })
				.filter(Boolean)
				.join(' ')
				.trim();
			if (text) return text;
		}
		const title = t(el.getAttribute('title'));
		if (title) return title;
		const tag = el.tagName.toLowerCase();
		if (tag === 'img') {
			const alt = t(el.getAttribute('alt'));
			if (alt) return alt;
		}
		if (tag === 'input' || tag === 'textarea') {
			const placeholder = t(el.getAttribute('placeholder'));
			if (placeholder) return placeholder;
			const name = t(el.getAttribute('name'));
			if (name) return name;
		}
		return t(el.textContent);
	};

	const el = document.activeElement;
	if (!el || el === document.body || el === document.documentElement) {
		return { found: false };
	}
	const name = nameFor(el);
	return {
		found: true,
		selector: selectorFor(el),
		tag: el.tagName.toLowerCase(),
		role: el.getAttribute('role') || '',
		name: name,
		hasName: name.length > 0,
		snippet: (el.outerHTML || '').slice(0, 160)
	};
})()`

// jsResetFocus clears any existing focus and resets scroll to the top-left
// corner.
const jsResetFocus = `(() => {
	if (document.activeElement && document.activeElement !== document.body) {
		document.activeElement.blur();
	}
	window.scrollTo(0, 0);
	return true;
})()`

// jsFocusSelector programmatically focuses the first match of a selector
// and reports whether the element actually took focus. The selector is
// injected as a quoted string literal.
const jsFocusSelector = `(() => {
	const el = document.querySelector(%s);
	if (!el) return false;
	el.focus();
	return document.activeElement === el;
})()`
