// Package catalog streams Logiqx/No-Intro dat files into classified records.
//
// The Reader walks the XML token stream and materializes one rom element at a
// time, so catalogs of any size are processed in bounded memory. Load pairs
// each entry with the speed labels produced by a Classifier.
package catalog
