package ascii

// Logo is the jobwatch banner shown by interactive commands.
func Logo() string {
	return `
   _       _                     _       _
  (_) ___ | |____      ____ _| |_ ___| |__
  | |/ _ \| '_ \ \ /\ / / _' | __/ __| '_ \
  | | (_) | |_) \ V  V / (_| | || (__| | | |
 _/ |\___/|_.__/ \_/\_/ \__,_|\__\___|_| |_|
|__/
`
}
