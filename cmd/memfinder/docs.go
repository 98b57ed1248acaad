package main

// General API documentation for swaggo. Run `swag init -g cmd/memfinder/docs.go` to generate docs.
//
// @title           memfinder API
// @version         1.0
// @description     Estimates the memory required to run a language model from its size, quantization and context window.
//
// @contact.name   llm-mem-finder maintainers
// @contact.url    https://github.com/Vaibhavs10/llm-mem-finder
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
