// Package jasyptconf finds the jasypt.encryptor settings that apply to a
// configuration document.
//
// The document itself is searched first, then the default Spring Boot file
// next to it (application.yml, application.yaml or application.properties).
// The first file that defines jasypt.encryptor.password wins; settings from
// different files are never merged. Values of the form ${NAME} or
// ${NAME:default} are resolved through an Env.
package jasyptconf
