// Package montage assembles a tile grid into a compositor command and runs it.
//
// The grid is walked row by row: y ascending from the region's MinY to MaxY,
// and within each row x ascending from MinX to MaxX. Ascending y is the
// top-to-bottom direction of the upstream tile numbering scheme; nothing here
// derives that, it is a property of the generator. Every coordinate without a
// tile gets the filler image instead.
//
// [BuildCommand] turns the walk into a [Command] whose [Command.Args] is the
// argument list for ImageMagick's montage:
//
//	<path>... -geometry +0+0 -tile <cols>x<rows> <output>
//
// A [Compositor] consumes the command. [ExecCompositor] runs the external
// program; [BuiltinCompositor] does the same layout in process. Tests
// substitute their own implementation to assert on the exact arguments.
package montage
