//go:build webgpu

package webgpu

// WGSL compute shaders for the Level-1 entry points. Each kernel is the
// concatenation of an element prelude (real or complex single precision)
// and a kernel body, so S and C variants share one body.

// workgroupSize is the number of threads per workgroup. Reductions run in a
// single workgroup.
const workgroupSize = 256

// maxGroupsX is the per-dimension dispatch limit; larger grids spill into y.
const maxGroupsX = 65535

// paramsSize is the byte size of the Params uniform.
const paramsSize = 32

const paramsDecl = `
struct Params {
    n: u32,
    incx: i32,
    incy: i32,
    offx: u32,
    offy: u32,
    conj: u32,
    alpha: vec2<f32>,
}

fn pos(i: u32, inc: i32, off: u32) -> u32 {
    if (inc >= 0) {
        return off + i * u32(inc);
    }
    return off + (params.n - 1u - i) * u32(-inc);
}
`

const realPrelude = `
alias T = f32;
fn tzero() -> T { return 0.0; }
fn mag(v: T) -> f32 { return abs(v); }
fn cmul(a: T, b: T) -> T { return a * b; }
fn cj(v: T) -> T { return v; }
fn alpha() -> T { return params.alpha.x; }
`

// Complex magnitudes use |re|+|im|, the norm used by the reference i?amax.
const complexPrelude = `
alias T = vec2<f32>;
fn tzero() -> T { return vec2<f32>(0.0, 0.0); }
fn mag(v: T) -> f32 { return abs(v.x) + abs(v.y); }
fn cmul(a: T, b: T) -> T { return vec2<f32>(a.x * b.x - a.y * b.y, a.x * b.y + a.y * b.x); }
fn cj(v: T) -> T {
    if (params.conj == 1u) {
        return vec2<f32>(v.x, -v.y);
    }
    return v;
}
fn alpha() -> T { return params.alpha; }
`

// indexShader finds the first element with the extreme magnitude. CMP is
// replaced with > for amax and < for amin. The result is one-based.
const indexShader = `
@group(0) @binding(0) var<storage, read> x: array<T>;
@group(0) @binding(1) var<storage, read_write> result: array<i32>;
@group(0) @binding(2) var<uniform> params: Params;

var<workgroup> best: array<f32, 256>;
var<workgroup> bidx: array<i32, 256>;

@compute @workgroup_size(256)
fn main(@builtin(local_invocation_id) lid: vec3<u32>) {
    let t = lid.x;
    var m: f32 = 0.0;
    var k: i32 = -1;
    for (var i = t; i < params.n; i += 256u) {
        let v = mag(x[pos(i, params.incx, params.offx)]);
        if (k < 0 || v CMP m) {
            m = v;
            k = i32(i);
        }
    }
    best[t] = m;
    bidx[t] = k;
    workgroupBarrier();

    for (var s = 128u; s > 0u; s = s >> 1u) {
        if (t < s) {
            let ok = bidx[t + s];
            let om = best[t + s];
            if (ok >= 0 && (bidx[t] < 0 || om CMP best[t] || (om == best[t] && ok < bidx[t]))) {
                best[t] = om;
                bidx[t] = ok;
            }
        }
        workgroupBarrier();
    }
    if (t == 0u) {
        result[0] = bidx[0] + 1;
    }
}
`

const asumShader = `
@group(0) @binding(0) var<storage, read> x: array<T>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

var<workgroup> acc: array<f32, 256>;

@compute @workgroup_size(256)
fn main(@builtin(local_invocation_id) lid: vec3<u32>) {
    let t = lid.x;
    var s: f32 = 0.0;
    for (var i = t; i < params.n; i += 256u) {
        s += mag(x[pos(i, params.incx, params.offx)]);
    }
    acc[t] = s;
    workgroupBarrier();

    for (var w = 128u; w > 0u; w = w >> 1u) {
        if (t < w) {
            acc[t] += acc[t + w];
        }
        workgroupBarrier();
    }
    if (t == 0u) {
        result[0] = acc[0];
    }
}
`

const dotShader = `
@group(0) @binding(0) var<storage, read> x: array<T>;
@group(0) @binding(1) var<storage, read> y: array<T>;
@group(0) @binding(2) var<storage, read_write> result: array<T>;
@group(0) @binding(3) var<uniform> params: Params;

var<workgroup> acc: array<T, 256>;

@compute @workgroup_size(256)
fn main(@builtin(local_invocation_id) lid: vec3<u32>) {
    let t = lid.x;
    var s = tzero();
    for (var i = t; i < params.n; i += 256u) {
        s += cmul(cj(x[pos(i, params.incx, params.offx)]), y[pos(i, params.incy, params.offy)]);
    }
    acc[t] = s;
    workgroupBarrier();

    for (var w = 128u; w > 0u; w = w >> 1u) {
        if (t < w) {
            acc[t] += acc[t + w];
        }
        workgroupBarrier();
    }
    if (t == 0u) {
        result[0] = acc[0];
    }
}
`

const axpyShader = `
@group(0) @binding(0) var<storage, read> x: array<T>;
@group(0) @binding(1) var<storage, read_write> y: array<T>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {
    let i = gid.y * groups.x * 256u + gid.x;
    if (i < params.n) {
        let iy = pos(i, params.incy, params.offy);
        y[iy] = y[iy] + cmul(alpha(), x[pos(i, params.incx, params.offx)]);
    }
}
`

const copyShader = `
@group(0) @binding(0) var<storage, read> x: array<T>;
@group(0) @binding(1) var<storage, read_write> y: array<T>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>, @builtin(num_workgroups) groups: vec3<u32>) {
    let i = gid.y * groups.x * 256u + gid.x;
    if (i < params.n) {
        y[pos(i, params.incy, params.offy)] = x[pos(i, params.incx, params.offx)];
    }
}
`
