// Package components provides the built-in component descriptors: the
// surface root, View, ScrollView, Paragraph and RawText.
//
// Props arrive as core.RawProps and are converted once per revision by the
// descriptor's props function. Flexbox keys follow the usual style names
// (flexDirection, marginLeft, borderTopWidth, width: "50%" and so on) and
// are read by ParseStyle.
//
// Views with no visual effect of their own are flattened: their nodes lack
// core.TraitFormsView, so the differ mounts their children directly into
// the nearest ancestor view. Set collapsable to false to keep a view.
package components
