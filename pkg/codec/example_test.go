package codec_test

import (
	"fmt"

	"github.com/matzehuels/jsonflow/pkg/codec"
)

func ExampleParse() {
	root, err := codec.Parse([]byte(`{"b": 2, "a": [true, null]}`))
	if err != nil {
		panic(err)
	}
	out, _ := codec.Marshal(root)
	fmt.Println(string(out))
	// Output:
	// {
	//   "b": 2,
	//   "a": [
	//     true,
	//     null
	//   ]
	// }
}

func ExampleParseScalar() {
	for _, text := range []string{"null", "true", "42", "042", "hello"} {
		s := codec.ParseScalar(text)
		fmt.Printf("%s -> %s\n", text, s.Type())
	}
	// Output:
	// null -> null
	// true -> boolean
	// 42 -> number
	// 042 -> string
	// hello -> string
}
