// Package catalog defines question sets: the statements a survey asks and
// the contradicts/requires relations between them.
//
// Sets are authored as YAML, one set per file. Each question lists the
// questions it contradicts or requires by id:
//
//	name: Superheroes
//	questions:
//	  - id: q1
//	    text: The best superhero is always the most powerful superhero
//	    contradicts: [q2, q7]
//
// The bundled sets are embedded in the binary. Extra sets are read from the
// configured catalog directory at startup and are immutable afterwards.
package catalog
