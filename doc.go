// Package gonml is a toolkit for computational neuroscience model plumbing:
// it parses SWC neuronal morphologies, converts them to NeuroML2 cells,
// builds LEMS simulation files, launches external simulation engines and
// loads the traces and spike files they produce.
//
// Functionality is exposed as named action services (convert, validate, sim,
// results, analysis, archive, annotations) that take typed or loosely-typed
// inputs, plus typed convenience wrappers on Runtime.
package gonml
