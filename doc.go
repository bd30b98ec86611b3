// Package autoroutes builds an HTTP route registry by discovering route
// modules on disk.
//
// Every directory matched by a discovery pattern is a candidate. Its entry
// file, index.toml, index.yaml, index.hcl or an interpreted index.go, is
// loaded into a [Module], and the modules are collected into a [Registry] in
// discovery order. The registry is then mounted on a [Router]:
//
//	reg, err := autoroutes.BuildRegistry("site", autoroutes.DefaultPattern, autoroutes.NewEntryLoader())
//	if err != nil {
//		log.Fatal(err)
//	}
//	mux := http.NewServeMux()
//	if err := autoroutes.NewMounter().Mount(autoroutes.NewRouter(mux), reg); err != nil {
//		log.Fatal(err)
//	}
//
// By default the first candidate that fails to load aborts the build. With
// [WithLogFailures] failures are logged and the candidate is skipped.
package autoroutes
