package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const switchFlagType = "yes|no"

// switchWords extends strconv.ParseBool with the words people type at a prompt.
var switchWords = map[string]bool{
	"yes": true,
	"on":  true,
	"no":  false,
	"off": false,
}

func parseSwitch(input string) (bool, error) {
	word := strings.ToLower(strings.TrimSpace(input))
	if value, known := switchWords[word]; known {
		return value, nil
	}
	return strconv.ParseBool(word)
}

// switchValue is a boolean flag value accepting yes/no and on/off next to the strconv forms.
type switchValue struct {
	target *bool
}

func (value switchValue) Set(input string) error {
	parsed, err := parseSwitch(input)
	if err != nil {
		return fmt.Errorf("expected yes, no, on, off, true or false, got %q", input)
	}
	*value.target = parsed
	return nil
}

func (value switchValue) String() string {
	if value.target == nil {
		return ""
	}
	return strconv.FormatBool(*value.target)
}

func (switchValue) Type() string {
	return switchFlagType
}

// addSwitchFlag registers name as a switch; a bare --name means yes.
func addSwitchFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flag := flagSet.VarPF(switchValue{target: target}, name, "", usage)
	flag.NoOptDefVal = "yes"
}

// attachSwitchValues turns "--name word" into "--name=word" for the given switch names
// when word parses as a switch, since pflag only reads optional values after "=".
func attachSwitchValues(arguments []string, names ...string) []string {
	result := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(result, arguments[index:]...)
		}
		if index+1 < len(arguments) && isSwitchName(argument, names) {
			if _, err := parseSwitch(arguments[index+1]); err == nil {
				result = append(result, argument+"="+arguments[index+1])
				index++
				continue
			}
		}
		result = append(result, argument)
	}
	return result
}

func isSwitchName(argument string, names []string) bool {
	for _, name := range names {
		if argument == "--"+name {
			return true
		}
	}
	return false
}
